// Package shell は、セッションオーケストレーターを駆動する行指向の
// 対話メニューです。1つの操作が完了するまで次の入力は受け付けません。
// すべての失敗は理由を表示してメニューに戻り、プロセスを落としません。
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shouni/go-cinegen-kit/pkg/domain"
	"github.com/shouni/go-cinegen-kit/pkg/workflow"
)

// EndMarker は複数行入力の終了を示す行です（EOFでも終了します）。
const EndMarker = "END"

// SessionDriver はメニューから呼び出されるセッション操作の契約です。
type SessionDriver interface {
	CreateCharacter(ctx context.Context, input workflow.CharacterInput) (domain.CharacterPackage, error)
	ExtractCandidates(ctx context.Context, imagePath string) ([]domain.Candidate, error)
	GenerateScene(ctx context.Context, index int, sceneText string) (string, error)
	Characters() []domain.CharacterPackage
}

// Shell は入出力ストリームの上でメニューを回します。
type Shell struct {
	in      *bufio.Scanner
	out     io.Writer
	session SessionDriver
}

// New は入出力とセッションを束ねた Shell を生成します。
func New(in io.Reader, out io.Writer, session SessionDriver) (*Shell, error) {
	if session == nil {
		return nil, fmt.Errorf("session は必須です")
	}
	return &Shell{
		in:      bufio.NewScanner(in),
		out:     out,
		session: session,
	}, nil
}

// Run はメニューのメインループです。入力の終端、または「終了」の選択まで回り続けます。
func (sh *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(sh.out, "--- CineGen: キャラクター一貫性付き画像生成セッション ---")

	for {
		sh.printMenu()
		choice, ok := sh.readLine("> ")
		if !ok {
			return nil // 入力の終端
		}

		switch strings.TrimSpace(choice) {
		case "1":
			sh.handleCreate(ctx)
		case "2":
			sh.handleCreateFromReference(ctx)
		case "3":
			sh.handleScene(ctx)
		case "4":
			sh.handleList()
		case "5":
			fmt.Fprintln(sh.out, "セッションを終了します。")
			return nil
		default:
			fmt.Fprintln(sh.out, "!! 無効な選択です。1〜5の番号を入力してください。")
		}
	}
}

func (sh *Shell) printMenu() {
	fmt.Fprintln(sh.out)
	fmt.Fprintln(sh.out, "=============== メインメニュー ===============")
	fmt.Fprintln(sh.out, "1. 新しいキャラクターを作成する (Stage 1)")
	fmt.Fprintln(sh.out, "2. 参照画像からキャラクターを作成する")
	fmt.Fprintln(sh.out, "3. キャラクターでシーンを生成する (Stage 2)")
	fmt.Fprintln(sh.out, "4. 作成済みキャラクターの一覧")
	fmt.Fprintln(sh.out, "5. 終了")
}

// handleCreate は手入力によるキャラクター作成を処理します。
func (sh *Shell) handleCreate(ctx context.Context) {
	fmt.Fprintln(sh.out, "\n--- 新しいキャラクターの作成 ---")

	name, ok := sh.readLine("キャラクターの名前: ")
	if !ok {
		return
	}

	fmt.Fprintf(sh.out, "外見や服装などの詳細な説明を入力してください（%q の行、またはEOFで終了）:\n", EndMarker)
	description := sh.readMultiLine()

	negative, ok := sh.readLine("ネガティブプロンプト（任意、避けたい要素）: ")
	if !ok {
		return
	}

	sh.createCharacter(ctx, workflow.CharacterInput{
		Name:           strings.TrimSpace(name),
		Description:    description,
		NegativePrompt: strings.TrimSpace(negative),
	})
}

// handleCreateFromReference は参照画像からの候補抽出と昇格を処理します。
func (sh *Shell) handleCreateFromReference(ctx context.Context) {
	fmt.Fprintln(sh.out, "\n--- 参照画像からのキャラクター作成 ---")

	path, ok := sh.readLine("参照画像のパス (jpg/jpeg/png/webp, 10MBまで): ")
	if !ok {
		return
	}

	candidates, err := sh.session.ExtractCandidates(ctx, strings.TrimSpace(path))
	if err != nil {
		fmt.Fprintf(sh.out, "!! %v\n", err)
		return
	}
	if len(candidates) == 0 {
		fmt.Fprintln(sh.out, "!! 画像からキャラクター候補を抽出できませんでした。別の画像を試してください。")
		return
	}

	fmt.Fprintln(sh.out, "\n--- 抽出された候補 ---")
	for i, c := range candidates {
		fmt.Fprintf(sh.out, "[%d] (%s) %s\n", i+1, c.Confidence, c.Description)
	}

	index, ok := sh.readIndex("使用する候補の番号: ", len(candidates))
	if !ok {
		return
	}
	selected := candidates[index-1]

	name, ok := sh.readLine("このキャラクターの名前: ")
	if !ok {
		return
	}
	negative, ok := sh.readLine("ネガティブプロンプト（任意）: ")
	if !ok {
		return
	}

	sh.createCharacter(ctx, workflow.CharacterInput{
		Name:           strings.TrimSpace(name),
		Description:    selected.Description,
		NegativePrompt: strings.TrimSpace(negative),
	})
}

func (sh *Shell) createCharacter(ctx context.Context, input workflow.CharacterInput) {
	pkg, err := sh.session.CreateCharacter(ctx, input)
	if err != nil {
		fmt.Fprintf(sh.out, "!! %v\n", err)
		return
	}
	fmt.Fprintf(sh.out, "++ キャラクター '%s' を作成しました (seed=%d)。シーン生成で使用できます。\n", pkg.Name, pkg.Seed)
}

// handleScene は既存キャラクターを使ったシーン生成を処理します。
func (sh *Shell) handleScene(ctx context.Context) {
	fmt.Fprintln(sh.out, "\n--- シーンの生成 ---")

	chars := sh.session.Characters()
	if len(chars) == 0 {
		fmt.Fprintln(sh.out, "!! このセッションにはまだキャラクターがありません。先にキャラクターを作成してください。")
		return
	}
	sh.printCharacters(chars)

	index, ok := sh.readIndex("シーンで使用するキャラクターの番号: ", len(chars))
	if !ok {
		return
	}

	fmt.Fprintf(sh.out, "シーンの説明を入力してください（%q の行、またはEOFで終了）:\n", EndMarker)
	sceneText := sh.readMultiLine()

	savedPath, err := sh.session.GenerateScene(ctx, index, sceneText)
	if err != nil {
		fmt.Fprintf(sh.out, "!! %v\n", err)
		return
	}
	fmt.Fprintf(sh.out, "++ シーンを生成しました: %s\n", savedPath)
}

func (sh *Shell) handleList() {
	sh.printCharacters(sh.session.Characters())
}

func (sh *Shell) printCharacters(chars []domain.CharacterPackage) {
	fmt.Fprintln(sh.out, "\n--- 作成済みキャラクター ---")
	if len(chars) == 0 {
		fmt.Fprintln(sh.out, "まだキャラクターは作成されていません。")
	} else {
		for i, c := range chars {
			fmt.Fprintf(sh.out, "[%d] %s\n", i+1, c)
		}
	}
	fmt.Fprintln(sh.out, "--------------------------")
}

// readIndex は1始まりの選択番号を読み取り、範囲を検査します。
// 数値でない入力や範囲外は副作用なしで拒否します。
func (sh *Shell) readIndex(prompt string, max int) (int, bool) {
	line, ok := sh.readLine(prompt)
	if !ok {
		return 0, false
	}
	index, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || index < 1 || index > max {
		fmt.Fprintf(sh.out, "!! 無効な選択です（1〜%d）。操作を中止しました。\n", max)
		return 0, false
	}
	return index, true
}

// readLine は1行の自由テキストを読み取ります。終端に達した場合は ok=false を返します。
func (sh *Shell) readLine(prompt string) (string, bool) {
	fmt.Fprint(sh.out, prompt)
	if !sh.in.Scan() {
		return "", false
	}
	return sh.in.Text(), true
}

// readMultiLine は EndMarker 行またはEOFまでの複数行テキストを読み取ります。
func (sh *Shell) readMultiLine() string {
	var lines []string
	for sh.in.Scan() {
		line := sh.in.Text()
		if strings.TrimSpace(line) == EndMarker {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

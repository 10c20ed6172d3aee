package prompt

import "testing"

func TestBuilder_BuildPortrait(t *testing.T) {
	t.Run("デフォルトの品質修飾句が前置されること", func(t *testing.T) {
		b := NewBuilder("")
		got := b.BuildPortrait("a tall woman with red hair")
		want := DefaultPortraitPrefix + "a tall woman with red hair"
		if got != want {
			t.Errorf("期待値 %q, 実際の値 %q", want, got)
		}
	})

	t.Run("指定した修飾句が使われること", func(t *testing.T) {
		b := NewBuilder("oil painting. ")
		if got := b.BuildPortrait("a knight"); got != "oil painting. a knight" {
			t.Errorf("実際の値 %q", got)
		}
	})
}

func TestBuilder_BuildScene(t *testing.T) {
	b := NewBuilder("")
	got := b.BuildScene("a tall woman with red hair", "standing in a busy street at night")
	want := "a tall woman with red hair. standing in a busy street at night"
	if got != want {
		t.Errorf("期待値 %q, 実際の値 %q", want, got)
	}
}

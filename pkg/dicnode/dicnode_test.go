package dicnode

import (
	"testing"

	"github.com/bastiangx/gboard-decode/pkg/dict"
)

func TestPushPassingChildAccumulatesCostAndWord(t *testing.T) {
	v := NewVector(10)
	root := Root(dict.NotADictPos)
	child, ok := v.PushPassingChild(root, 5, []dict.CodePoint("c"), 1, 1.5)
	if !ok {
		t.Fatal("PushPassingChild rejected at capacity 10")
	}
	if child.Depth != 1 || child.InputIndex != 1 {
		t.Errorf("child depth/inputIndex = %d/%d, want 1/1", child.Depth, child.InputIndex)
	}
	if string(child.Word) != "c" {
		t.Errorf("child.Word = %q, want \"c\"", string(child.Word))
	}
	if child.Cost != 1.5 {
		t.Errorf("child.Cost = %f, want 1.5", child.Cost)
	}
	if v.Len() != 1 {
		t.Errorf("Vector.Len() = %d, want 1", v.Len())
	}
}

func TestPushPassingChildConsumesMultiCodePointLabel(t *testing.T) {
	v := NewVector(10)
	root := Root(dict.NotADictPos)
	child, ok := v.PushPassingChild(root, 5, []dict.CodePoint("art"), 3, 0.8)
	if !ok {
		t.Fatal("PushPassingChild rejected at capacity 10")
	}
	if child.Depth != 3 || child.InputIndex != 3 {
		t.Errorf("child depth/inputIndex = %d/%d, want 3/3", child.Depth, child.InputIndex)
	}
	if string(child.Word) != "art" {
		t.Errorf("child.Word = %q, want \"art\"", string(child.Word))
	}
}

func TestPushLeavingChildSetsPrevWordTerminal(t *testing.T) {
	v := NewVector(10)
	root := Root(dict.NotADictPos)
	passing, _ := v.PushPassingChild(root, 5, []dict.CodePoint("c"), 1, 1)
	leaving, ok := v.PushLeavingChild(passing, ' ', 42, 0.2)
	if !ok {
		t.Fatal("PushLeavingChild rejected")
	}
	if !leaving.Flags.IsLeavingNode {
		t.Error("leaving node should have IsLeavingNode set")
	}
	if leaving.PrevWordTerminalPos != 42 {
		t.Errorf("PrevWordTerminalPos = %d, want 42", leaving.PrevWordTerminalPos)
	}
	if string(leaving.Word) != "c " {
		t.Errorf("leaving.Word = %q, want \"c \" (delimiter appended)", string(leaving.Word))
	}
}

func TestVectorRejectsPushBeyondCapacity(t *testing.T) {
	v := NewVector(1)
	root := Root(dict.NotADictPos)
	if _, ok := v.PushPassingChild(root, 1, []dict.CodePoint("a"), 1, 0); !ok {
		t.Fatal("first push should succeed")
	}
	if _, ok := v.PushPassingChild(root, 2, []dict.CodePoint("b"), 1, 0); ok {
		t.Error("push past capacity should be rejected")
	}
}

func TestResetClearsArena(t *testing.T) {
	v := NewVector(10)
	root := Root(dict.NotADictPos)
	v.PushPassingChild(root, 1, []dict.CodePoint("a"), 1, 0)
	v.Reset()
	if v.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", v.Len())
	}
}

package parser

import "testing"

func TestCursor_NextPeekSkip(t *testing.T) {
	c := newCursor([]string{"a", "b", "c", "d"})

	if ln, ok := c.Peek(0); !ok || ln.No != 0 || ln.Text != "a" {
		t.Fatalf("Peek(0) = %+v, %v", ln, ok)
	}
	if ln, ok := c.Peek(2); !ok || ln.Text != "c" {
		t.Fatalf("Peek(2) = %+v, %v", ln, ok)
	}
	if ln, ok := c.Next(); !ok || ln.Text != "a" {
		t.Fatalf("Next() = %+v, %v", ln, ok)
	}

	c.Skip(2)
	ln, ok := c.Next()
	if !ok || ln.No != 3 || ln.Text != "d" {
		t.Fatalf("Next() after Skip = %+v, %v", ln, ok)
	}
	if _, ok := c.Next(); ok {
		t.Error("Next() past end returned ok")
	}
	if _, ok := c.Peek(0); ok {
		t.Error("Peek(0) past end returned ok")
	}
	if _, ok := c.Peek(-1); ok {
		t.Error("Peek(-1) returned ok")
	}

	c.Skip(10)
	if _, ok := c.Next(); ok {
		t.Error("Skip past end should clamp")
	}
}

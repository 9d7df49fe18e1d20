package htmltext

import "testing"

func TestExtract_DropsScriptKeepsText(t *testing.T) {
	got := Extract("<p>Funny story</p><script>var x = 1;</script>")
	if got != "Funny story" {
		t.Errorf("Extract = %q, want %q", got, "Funny story")
	}
}

func TestExtract_BreakTagsProduceLines(t *testing.T) {
	got := Extract("<div>a</div><div>b</div>")
	if got != "a\nb" {
		t.Errorf("Extract = %q, want %q", got, "a\nb")
	}
}

func TestExtract_ListItems(t *testing.T) {
	got := Extract("<ul><li>one</li><li>two</li></ul>")
	if got != "one\ntwo" {
		t.Errorf("Extract = %q, want %q", got, "one\ntwo")
	}
}

func TestExtract_NoteBody(t *testing.T) {
	src := `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE en-note SYSTEM "http://xml.evernote.com/pub/enml2.dtd">
<en-note><div>Funny story</div><div><br/></div><div>About a horse.</div></en-note>`

	got := Extract(src)
	want := "Funny story\n\nAbout a horse."
	if got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtract_NestedSkipElements(t *testing.T) {
	// A boolean skip flag would resurface "z" after the inner close tag.
	got := Extract("<head>x<head>y</head>z</head>w")
	if got != "w" {
		t.Errorf("Extract = %q, want %q", got, "w")
	}
}

func TestExtract_MetaDoesNotHideTail(t *testing.T) {
	got := Extract(`<meta charset="utf-8">Visible`)
	if got != "Visible" {
		t.Errorf("Extract = %q, want %q", got, "Visible")
	}
}

func TestExtract_StyleContentDropped(t *testing.T) {
	got := Extract("<style>body { color: red; }</style>ok")
	if got != "ok" {
		t.Errorf("Extract = %q, want %q", got, "ok")
	}
}

func TestExtract_ResolvesEntities(t *testing.T) {
	got := Extract("Tom &amp; Jerry &lt;3")
	if got != "Tom & Jerry <3" {
		t.Errorf("Extract = %q, want %q", got, "Tom & Jerry <3")
	}
}

func TestExtract_CollapsesWhitespace(t *testing.T) {
	got := Extract("<p>a   b</p>\n\n\n<p>c</p>")
	if got != "a b\n\nc" {
		t.Errorf("Extract = %q, want %q", got, "a b\n\nc")
	}
}

func TestExtract_PlainTextUnchanged(t *testing.T) {
	got := Extract("no markup here")
	if got != "no markup here" {
		t.Errorf("Extract = %q, want %q", got, "no markup here")
	}
}

func TestStripTags_Total(t *testing.T) {
	got := stripTags("<p>a</p><broken")
	if got != "a <broken" {
		t.Errorf("stripTags = %q, want %q", got, "a <broken")
	}
}

package dom

import (
	"strings"
	"testing"
)

func TestParseFragment(t *testing.T) {
	root, err := ParseString(`<span>{{ msg }}</span><button v-on:click="doThis">Go</button>`)
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}
	if root.Type != DocumentNode {
		t.Fatalf("fragment root type = %v, want Document", root.Type)
	}
	kids := root.ChildNodes()
	if len(kids) != 2 {
		t.Fatalf("expected 2 children, got %d", len(kids))
	}
	if kids[0].Tag != "span" || kids[0].TextContent() != "{{ msg }}" {
		t.Errorf("unexpected span: %q %q", kids[0].Tag, kids[0].TextContent())
	}
	if v, ok := kids[1].Attr("v-on:click"); !ok || v != "doThis" {
		t.Errorf("v-on:click = %q, %v", v, ok)
	}
}

func TestParseDocument(t *testing.T) {
	src := `<!DOCTYPE html><html><head><title>t</title></head><body><div id="app"><p v-text="label"></p></div></body></html>`
	body, err := ParseString(src)
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}
	if body.Tag != "body" {
		t.Fatalf("expected body element, got %q", body.Tag)
	}
	app := body.FirstChild()
	if id, _ := app.Attr("id"); id != "app" {
		t.Errorf("first body child id = %q, want app", id)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	src := `<div class="a"><input type="text" v-model="name"/><p>x &lt; y</p><!--note--></div>`
	root, err := ParseString(src)
	if err != nil {
		t.Fatal(err)
	}
	got, err := RenderString(root, RenderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := `<div class="a"><input type="text" v-model="name"/><p>x &lt; y</p><!--note--></div>`
	if got != want {
		t.Errorf("RenderString:\n got %s\nwant %s", got, want)
	}
}

func TestRenderValueProperty(t *testing.T) {
	in := NewElement("input", []Attr{{Name: "value", Value: "old"}})
	in.SetValue("new")
	ta := NewElement("textarea", nil, NewText("old"))
	ta.SetValue("typed")

	out, err := RenderString(NewFragment(in, ta), RenderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<input value="new"/>`) {
		t.Errorf("input value not reflected: %s", out)
	}
	if !strings.Contains(out, `<textarea>typed</textarea>`) {
		t.Errorf("textarea value not reflected: %s", out)
	}
}

func TestRenderIDs(t *testing.T) {
	text := NewText("hi")
	span := NewElement("span", nil, text)
	out, err := RenderString(span, RenderOptions{IDs: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `data-vbid="`) {
		t.Errorf("missing element id: %s", out)
	}

	marker := "<!--vbid:"
	i := strings.Index(out, marker)
	if i < 0 {
		t.Fatalf("missing text marker: %s", out)
	}
	end := strings.Index(out[i:], "-->")
	id, ok := TextMarkerID(out[i+4 : i+end])
	if !ok || id != text.ID() {
		t.Errorf("TextMarkerID = %d, %v; want %d", id, ok, text.ID())
	}
}

func TestRenderIDsSkipRawText(t *testing.T) {
	script := NewElement("script", nil, NewText("var a = 1 < 2;"))
	out, err := RenderString(script, RenderOptions{IDs: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<!--vbid:") {
		t.Errorf("raw text must not carry markers: %s", out)
	}
	if !strings.Contains(out, "var a = 1 < 2;") {
		t.Errorf("script text should be raw: %s", out)
	}
}

func TestTextMarkerID(t *testing.T) {
	if _, ok := TextMarkerID("note"); ok {
		t.Error("plain comment should not parse")
	}
	if _, ok := TextMarkerID("vbid:x"); ok {
		t.Error("non-numeric id should not parse")
	}
	if id, ok := TextMarkerID("vbid:12"); !ok || id != 12 {
		t.Errorf("TextMarkerID(vbid:12) = %d, %v", id, ok)
	}
}

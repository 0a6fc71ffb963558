package dom

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html>
<html>
<head>
  <title>News - EHAMBURG DAILY</title>
  <style>.x { color: red }</style>
</head>
<body>
  <h1 id="top">Top Stories</h1>
  <div class="news-item" style="position: relative">
    <h3 class="news-item-title">Hamburg Weather Update</h3>
    <p>Rain expected all week</p>
  </div>
  <p id="gone" style="display: none">Hidden paragraph</p>
  <section hidden><span id="nested">Nested hidden</span></section>
  <span class="dev-name" id="felix">Felix</span>
  <script>var searchable = "nope";</script>
</body>
</html>`

func parseTestPage(t *testing.T, opts ...Option) *Document {
	t.Helper()
	doc, err := ParseString(testPage, opts...)
	require.NoError(t, err)
	return doc
}

func mustByID(t *testing.T, doc *Document, id string) *Element {
	t.Helper()
	el, ok := doc.ElementByID(id)
	require.True(t, ok, "element #%s not found", id)
	return el.(*Element)
}

func TestParse(t *testing.T) {
	t.Run("nil reader", func(t *testing.T) {
		_, err := Parse(nil)
		assert.ErrorIs(t, err, ErrNilReader)
	})

	t.Run("invalid viewport", func(t *testing.T) {
		_, err := ParseString(testPage, WithViewport(0, 600))
		assert.ErrorIs(t, err, ErrInvalidViewport)
	})

	t.Run("invalid line height", func(t *testing.T) {
		_, err := ParseString(testPage, WithLineHeight(-1))
		assert.ErrorIs(t, err, ErrInvalidLineHeight)
	})

	t.Run("defaults", func(t *testing.T) {
		doc := parseTestPage(t)
		assert.Equal(t, DefaultViewportWidth, doc.Viewport().Width())
		assert.Equal(t, DefaultViewportHeight, doc.Viewport().Height())
		assert.Equal(t, 0, doc.Viewport().ScrollY())
	})
}

func TestDocument_Title(t *testing.T) {
	doc := parseTestPage(t)
	assert.Equal(t, "News - EHAMBURG DAILY", doc.Title())

	untitled, err := ParseString("<p>hi</p>")
	require.NoError(t, err)
	assert.Equal(t, "", untitled.Title())
}

func TestDocument_QueryAll(t *testing.T) {
	doc := parseTestPage(t)

	t.Run("document order", func(t *testing.T) {
		els := doc.QueryAll("h1, h3, span")
		require.Len(t, els, 4)
		assert.Equal(t, "h1", els[0].TagName())
		assert.Equal(t, "h3", els[1].TagName())
		assert.Equal(t, "Nested hidden", els[2].Text())
		assert.Equal(t, "Felix", els[3].Text())
	})

	t.Run("stable handles", func(t *testing.T) {
		first := doc.QueryAll(".dev-name")
		second := doc.QueryAll(".dev-name")
		require.Len(t, first, 1)
		assert.Same(t, first[0], second[0])
	})

	t.Run("invalid selector", func(t *testing.T) {
		assert.Empty(t, doc.QueryAll("p[["))
	})
}

func TestElement_Traversal(t *testing.T) {
	doc := parseTestPage(t)
	title := doc.QueryAll(".news-item-title")[0]

	item, ok := title.Closest(".news-item")
	require.True(t, ok)
	assert.Equal(t, "div", item.TagName())

	self, ok := title.Closest("h3")
	require.True(t, ok)
	assert.Same(t, title, self)

	_, ok = title.Closest(".dev-card")
	assert.False(t, ok)

	p, ok := item.Find("p")
	require.True(t, ok)
	assert.Equal(t, "Rain expected all week", p.Text())

	_, ok = item.Find(".news-item")
	assert.False(t, ok, "Find must not match the element itself")
}

func TestElement_Attributes(t *testing.T) {
	doc := parseTestPage(t)
	felix := mustByID(t, doc, "felix")

	assert.True(t, felix.HasClass("dev-name"))
	assert.False(t, felix.HasClass("dev"))

	v, ok := felix.Attr("id")
	assert.True(t, ok)
	assert.Equal(t, "felix", v)

	_, ok = felix.Attr("data-search-content")
	assert.False(t, ok)

	_, ok = doc.ElementByID("missing")
	assert.False(t, ok)
}

func TestElement_IsRendered(t *testing.T) {
	doc := parseTestPage(t)

	assert.True(t, mustByID(t, doc, "top").IsRendered())
	assert.True(t, mustByID(t, doc, "felix").IsRendered())
	assert.False(t, mustByID(t, doc, "gone").IsRendered(), "display none")
	assert.False(t, mustByID(t, doc, "nested").IsRendered(), "inside hidden ancestor")
	assert.False(t, doc.QueryAll("script")[0].IsRendered())
	assert.False(t, doc.QueryAll("title")[0].IsRendered())
}

func TestElement_Layout(t *testing.T) {
	doc := parseTestPage(t, WithLineHeight(20))

	top := mustByID(t, doc, "top")
	title := doc.QueryAll(".news-item-title")[0]
	item := doc.QueryAll(".news-item")[0]
	felix := mustByID(t, doc, "felix")

	assert.Equal(t, 0, top.OffsetTop())
	assert.Equal(t, 20, item.OffsetTop())

	parent, ok := title.OffsetParent()
	require.True(t, ok)
	assert.Same(t, item, parent)
	assert.Equal(t, 0, title.OffsetTop())

	// h1 and two lines inside the news item; hidden content takes no space.
	assert.Equal(t, 60, felix.OffsetTop())
	body, ok := felix.OffsetParent()
	require.True(t, ok)
	assert.Equal(t, "body", body.TagName())

	_, ok = body.OffsetParent()
	assert.False(t, ok)
}

func TestElement_SetStyle(t *testing.T) {
	doc := parseTestPage(t, WithLineHeight(20))
	top := mustByID(t, doc, "top")
	felix := mustByID(t, doc, "felix")

	t.Run("highlight and revert", func(t *testing.T) {
		felix.SetStyle("background-color", "#ffeb3b")
		assert.Equal(t, "#ffeb3b", felix.Style("background-color"))

		felix.SetStyle("background-color", "")
		assert.Equal(t, "", felix.Style("background-color"))
	})

	t.Run("inline style visible", func(t *testing.T) {
		assert.Equal(t, "none", mustByID(t, doc, "gone").Style("display"))
	})

	t.Run("display none relayouts", func(t *testing.T) {
		top.SetStyle("display", "none")
		assert.False(t, top.IsRendered())
		assert.Equal(t, 40, felix.OffsetTop())

		top.SetStyle("display", "")
		assert.True(t, top.IsRendered())
		assert.Equal(t, 60, felix.OffsetTop())
	})

	t.Run("min height", func(t *testing.T) {
		top.SetStyle("height", "200px")
		assert.Equal(t, 240, felix.OffsetTop())
		top.SetStyle("height", "")
	})
}

func TestElement_Viewport(t *testing.T) {
	doc := parseTestPage(t, WithLineHeight(20), WithViewport(375, 100))
	felix := mustByID(t, doc, "felix")

	var scrolls []int
	doc.Window().OnScroll(func(top int, smooth bool) {
		scrolls = append(scrolls, top)
	})

	assert.Equal(t, 60, felix.BoundingTop())

	doc.Viewport().ScrollTo(50, true)
	assert.Equal(t, 10, felix.BoundingTop())

	doc.Viewport().ScrollTo(-30, false)
	assert.Equal(t, 0, doc.Viewport().ScrollY())

	felix.SetStyle("transform", "translateY(-15px)")
	assert.Equal(t, 45, felix.BoundingTop())
	assert.Equal(t, 60, felix.OffsetTop(), "transforms do not affect layout")

	felix.ScrollIntoView()
	assert.Equal(t, 45, doc.Viewport().ScrollY())
	assert.Equal(t, 0, felix.BoundingTop())

	assert.Equal(t, []int{50, 0, 45}, scrolls)
}

func TestDocument_Remove(t *testing.T) {
	doc := parseTestPage(t)
	felix := mustByID(t, doc, "felix")
	require.True(t, felix.IsAttached())

	doc.Remove(felix)
	assert.False(t, felix.IsAttached())
	assert.False(t, felix.IsRendered())
	assert.Empty(t, doc.QueryAll(".dev-name"))

	// Removing twice is harmless.
	doc.Remove(felix)
}

func TestElement_StringConcurrentWithMutation(t *testing.T) {
	doc := parseTestPage(t)
	felix := mustByID(t, doc, "felix")
	top := mustByID(t, doc, "top")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.Equal(t, "<span id=felix class=dev-name>", felix.String())
		}()
		go func() {
			defer wg.Done()
			top.SetStyle("background-color", "#ffeb3b")
			doc.Remove(felix)
		}()
	}
	wg.Wait()

	assert.Equal(t, "<h1 id=top>", top.String())
}

func TestDocument_Detach(t *testing.T) {
	doc := parseTestPage(t)
	top := mustByID(t, doc, "top")

	doc.Detach()
	assert.True(t, doc.IsDetached())
	assert.False(t, top.IsAttached())
	assert.False(t, top.IsRendered())
}

func TestParseInlineStyle(t *testing.T) {
	decls := parseInlineStyle("Display: none; color:#fff; transform: translateY(-4px)")
	assert.Equal(t, "none", decls["display"])
	assert.Equal(t, "#fff", decls["color"])
	assert.Equal(t, "translateY(-4px)", decls["transform"])

	later := parseInlineStyle("display: block; display: none !important;")
	assert.Equal(t, "none", later["display"])

	broken := parseInlineStyle("color: red; bogus; display: none")
	assert.Equal(t, "red", broken["color"])
	assert.NotContains(t, broken, "bogus")
	assert.NotContains(t, broken, "display")

	assert.Empty(t, parseInlineStyle(""))

	assert.Equal(t, -4, translateY(decls["transform"]))
	assert.Equal(t, 1000, translateY("translateY( 1000px )"))
	assert.Equal(t, 12, translateY("scale(2) translateY(12.5px)"))
	assert.Equal(t, 0, translateY("translateY(2em)"))
	assert.Equal(t, 0, translateY("scale(2)"))
	assert.Equal(t, 120, pixels("120px"))
	assert.Equal(t, 0, pixels("auto"))
}

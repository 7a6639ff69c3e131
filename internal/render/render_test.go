package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transform(t *testing.T, content string) string {
	t.Helper()
	result, err := Transform(content)
	require.NoError(t, err)
	return string(result.HTML)
}

func TestTransform_CodeBlock(t *testing.T) {
	t.Parallel()

	out := transform(t, `<pre><code class="language-go">fmt.Println("hi")</code></pre>`)

	assert.Contains(t, out, `<div class="code-block" data-language="go">`)
	assert.Contains(t, out, `<span class="code-block-lang">go</span>`)
	assert.Contains(t, out, `aria-label="Copy code to clipboard"`)
	// The original pre survives inside the wrapper
	assert.Contains(t, out, `<pre><code class="language-go">`)
	assert.Contains(t, out, `fmt.Println(&#34;hi&#34;)`)
}

func TestTransform_CodeBlockWithoutLanguage(t *testing.T) {
	t.Parallel()

	out := transform(t, `<pre><code>plain</code></pre>`)

	assert.Contains(t, out, `data-language="text"`)
	assert.Contains(t, out, `<span class="code-block-lang">text</span>`)
}

func TestTransform_MermaidBlock(t *testing.T) {
	t.Parallel()

	out := transform(t, `<pre><code class="language-mermaid">graph TD; A--&gt;B</code></pre>`)

	assert.Contains(t, out, `<div class="mermaid">`)
	assert.NotContains(t, out, "<pre>")
	assert.NotContains(t, out, "code-block")
}

func TestTransform_InlineMermaid(t *testing.T) {
	t.Parallel()

	out := transform(t, `<p><code class="language-mermaid">graph LR; A--&gt;B</code></p>`)

	assert.Contains(t, out, `<div class="mermaid">`)
	assert.NotContains(t, out, "<code")
}

func TestTransform_Math(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "display math from fenced block",
			content: `<pre><code class="language-math">E = mc^2</code></pre>`,
			want:    `<span class="math math-display">E = mc^2</span>`,
		},
		{
			name:    "inline math from language class",
			content: `<p>Energy: <code class="language-math">E = mc^2</code></p>`,
			want:    `<span class="math math-inline">E = mc^2</span>`,
		},
		{
			name:    "inline math from bare math class",
			content: `<p><code class="math">a^2 + b^2</code></p>`,
			want:    `<span class="math math-inline">a^2 + b^2</span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Contains(t, transform(t, tt.content), tt.want)
		})
	}
}

func TestTransform_PlainInlineCodeUntouched(t *testing.T) {
	t.Parallel()

	out := transform(t, `<p>Run <code>go test</code> locally.</p>`)

	assert.Equal(t, `<p>Run <code>go test</code> locally.</p>`, out)
}

func TestTransform_HeadingAnchors(t *testing.T) {
	t.Parallel()

	result, err := Transform(`<h2>Getting Started</h2><p>text</p><h3>Getting Started</h3>`)
	require.NoError(t, err)
	out := string(result.HTML)

	assert.Contains(t, out, `<h2 id="getting-started">`)
	assert.Contains(t, out, `<h3 id="getting-started-1">`)
	assert.Contains(t, out, `<a class="heading-anchor" href="#getting-started" aria-hidden="true">#</a>`)
	assert.Contains(t, out, `href="#getting-started-1"`)

	require.Len(t, result.TOC, 2)
	assert.Equal(t, Heading{Level: 2, ID: "getting-started", Text: "Getting Started"}, result.TOC[0])
	assert.Equal(t, Heading{Level: 3, ID: "getting-started-1", Text: "Getting Started"}, result.TOC[1])
}

func TestTransform_BodyH1LeftOutOfTOC(t *testing.T) {
	t.Parallel()

	result, err := Transform(`<h1>Big Title</h1><h2>Section</h2>`)
	require.NoError(t, err)
	out := string(result.HTML)

	// The h1 still gets its anchor, it just isn't listed.
	assert.Contains(t, out, `<h1 id="big-title">`)
	assert.Contains(t, out, `href="#big-title"`)
	require.Len(t, result.TOC, 1)
	assert.Equal(t, Heading{Level: 2, ID: "section", Text: "Section"}, result.TOC[0])
}

func TestTransform_HeadingKeepsExistingID(t *testing.T) {
	t.Parallel()

	result, err := Transform(`<h2 id="custom">Title</h2>`)
	require.NoError(t, err)

	assert.Contains(t, string(result.HTML), `id="custom"`)
	assert.Contains(t, string(result.HTML), `href="#custom"`)
	require.Len(t, result.TOC, 1)
	assert.Equal(t, "custom", result.TOC[0].ID)
}

func TestTransform_LazyImages(t *testing.T) {
	t.Parallel()

	out := transform(t, `<p><img src="/a.png" alt="diagram"></p>`)

	assert.Contains(t, out, `loading="lazy"`)
	assert.NotContains(t, out, "<figure>")
}

func TestTransform_TitledImageBecomesFigure(t *testing.T) {
	t.Parallel()

	out := transform(t, `<p><img src="/a.png" alt="diagram" title="System overview"></p>`)

	assert.Contains(t, out, "<figure>")
	assert.Contains(t, out, `<figcaption>System overview</figcaption>`)
	assert.Contains(t, out, `loading="lazy"`)
}

func TestTransform_UnrecognizedNodesPassThrough(t *testing.T) {
	t.Parallel()

	content := `<blockquote><p>Quoted <em>text</em> with a <a href="/link">link</a>.</p></blockquote>`

	assert.Equal(t, content, transform(t, content))
}

func TestTransform_EmptyContent(t *testing.T) {
	t.Parallel()

	result, err := Transform("")
	require.NoError(t, err)
	assert.Empty(t, string(result.HTML))
	assert.Empty(t, result.TOC)
}

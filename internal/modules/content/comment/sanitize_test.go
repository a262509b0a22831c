package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"plain":                                   "plain",
		"<b>bold</b> move":                        "bold move",
		`<img src=x onerror="alert(1)">hi`:        "hi",
		"  <script>alert(1)</script>  ":           "",
		"Tom &amp; Jerry":                         "Tom & Jerry",
		`<a href="javascript:alert(1)">click</a>`: "click",
		"1 &lt; 2":                                "1 < 2",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeText(in), in)
	}
}

func TestSanitizeTextDecodedMarkup(t *testing.T) {
	inputs := []string{
		"&lt;script&gt;alert(1)&lt;/script&gt;&lt;img src=x onerror=alert(2)&gt;",
		"&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;",
		"hi &#60;b onclick=x&#62;there&#60;/b&#62;",
	}
	for _, in := range inputs {
		out := sanitizeText(in)
		assert.NotContains(t, out, "<script", in)
		assert.NotContains(t, out, "<img", in)
		assert.NotContains(t, out, "<b", in)
		assert.Equal(t, out, sanitizeText(out), in)
	}
	assert.Equal(t, "hi there", sanitizeText("hi &#60;b onclick=x&#62;there&#60;/b&#62;"))
}

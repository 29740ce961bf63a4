package main

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// shadowScript attaches counter shadow roots that arrived through an htmx
// swap (DOMParser leaves declarative shadow roots as plain templates) and
// lets htmx process the click regions inside every shadow root once.
const shadowScript = `(function () {
  var wired = new WeakSet();
  function wireCounters() {
    document.querySelectorAll("my-counter").forEach(function (el) {
      var tpl = el.querySelector(":scope > template[shadowrootmode]");
      if (tpl && !el.shadowRoot) {
        el.attachShadow({ mode: "open" }).append(tpl.content);
        tpl.remove();
      }
      if (el.shadowRoot && !wired.has(el.shadowRoot)) {
        wired.add(el.shadowRoot);
        htmx.process(el.shadowRoot);
      }
    });
  }
  document.addEventListener("DOMContentLoaded", wireCounters);
  document.addEventListener("htmx:afterSwap", wireCounters);
  document.addEventListener("htmx:load", wireCounters);
})();`

// listenerScript mirrors the last valueChange into #last-change.
const listenerScript = `document.body.addEventListener("valueChange", function (e) {
  var out = document.getElementById("last-change");
  out.textContent = e.target.id + ": " + e.detail.value;
});`

// page wraps the counters in a minimal HTML document with htmx loaded.
func page(counters []templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>my-counter</title>`+
			`<script src="`+htmxSrc+`"></script></head><body>`); err != nil {
			return err
		}
		for _, c := range counters {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<p>Last change: <output id="last-change">none</output></p>`+
			`<script>`+shadowScript+`</script><script>`+listenerScript+`</script></body></html>`)
		return err
	})
}

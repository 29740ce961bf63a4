package mycounter

// DefaultHeight is used for the --height custom property when the host
// does not set one.
const DefaultHeight = "100px"

// Class names of the nodes the counter looks up after building its tree.
const (
	classDecrement = "decrement"
	classIncrement = "increment"
	classDisplay   = "value-display"
)

const styleSheet = `
    .counter-container {
      --default-height: var(--height, ` + DefaultHeight + `);

      width: calc(var(--default-height) * 2);
      height: var(--default-height);
      position: relative;
    }

    .counter-container > div {
      color: white;
      font-size: 2.2rem;
      display: flex;
      align-items: center;
      justify-content: center;
      border: 5px solid white;
      margin: 0;
      padding: 0;
    }

    .counter-container .value {
      background-color: black;
      position: absolute;
      z-index: 2;
      width: var(--default-height);
      height: 100%;
      border-radius: 50%;
      border: 5px solid white;
      left: 50%;
      margin-left: calc(var(--default-height) / -2);
    }

    .counter-container .buttons {
      position: absolute;
      z-index: 1;
      width: 100%;
      height: 100%;
    }

    .counter-container .button {
      width: 100%;
      height: 100%;
      display: flex;
      align-items: center;
      transition-duration: 200ms;
      cursor: pointer;
      user-select: none;
    }

    .counter-container .button:hover {
      background-color: white;
      color: black;
    }

    .counter-container .button:active {
      background-color: #ff584f;
      color: white;
    }

    .counter-container .decrement {
      background-color: black;
      justify-content: flex-start;

      border-bottom-left-radius: calc(var(--default-height) / 2);
      border-top-left-radius: calc(var(--default-height) / 2);
      padding-left: calc(var(--default-height) / 6);
    }

    .counter-container .increment {
      background-color: black;
      justify-content: flex-end;

      border-bottom-right-radius: calc(var(--default-height) / 2);
      border-top-right-radius: calc(var(--default-height) / 2);
      padding-right: calc(var(--default-height) / 6);
    }
`

// buildTree creates a fresh shadow tree for one counter instance.
func buildTree() *node {
	style := &node{tag: "style", text: styleSheet, raw: true}

	header := el("slot", []attr{{name: "name", value: "header"}},
		textEl("h1", nil, "My Counter"),
	)

	container := el("div", class("counter-container"),
		el("div", class("buttons"),
			textEl("div", class("button "+classDecrement), "-"),
			textEl("div", class("button "+classIncrement), "+"),
		),
		el("div", []attr{{name: "class", value: "value"}, {name: "part", value: "value"}},
			el("slot", []attr{{name: "name", value: "value-prefix"}}),
			textEl("span", class(classDisplay), "0"),
			el("slot", []attr{{name: "name", value: "value-postfix"}}),
		),
		el("div", class("help-text"),
			el("slot", nil),
		),
	)

	return el("", nil, style, header, container)
}

package cytoscape

import "html/template"

const defaultCDN = "https://unpkg.com/cytoscape@3.30.2/dist/cytoscape.min.js"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        * {
            margin: 0;
        }
        .zkgraph {
            width: 100vw;
            height: 100vh;
        }
    </style>
    <script type="text/javascript" src="{{.CDN}}"></script>
  </head>
  <body>
    <div id="{{.Container}}" class="zkgraph"></div>
    <script type="text/javascript">
const cy = cytoscape(Object.assign(
  { container: document.getElementById({{.Container}}) },
  {{.Options}}
));
{{- if .Live}}

(function () {
  const scheme = location.protocol === "https:" ? "wss://" : "ws://";
  const ws = new WebSocket(scheme + location.host + {{.SocketPath}});

  ws.onmessage = function (event) {
    const msg = JSON.parse(event.data);
    if (msg.type === "reset") {
      cy.elements().remove();
      cy.add(msg.data);
    } else if (msg.type === "add") {
      cy.add(msg.data);
    } else {
      return;
    }
    cy.layout({{.Layout}}).run();
  };
})();
{{- end}}
    </script>
  </body>
</html>
`))

type pageData struct {
	Title      string
	CDN        string
	Container  string
	Options    template.JS
	Layout     template.JS
	Live       bool
	SocketPath string
}

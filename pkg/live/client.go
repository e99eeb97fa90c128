package live

import (
	"html/template"
	"io"
)

// clientScript applies patches and forwards input and bound events.
const clientScript = `(function () {
  var root = document.getElementById("vbind-root");
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/ws");
  var bound = {};

  function byID(id) {
    return root.querySelector('[data-vbid="' + id + '"]');
  }
  function textByID(id) {
    var w = document.createTreeWalker(root, NodeFilter.SHOW_COMMENT);
    for (var c = w.nextNode(); c; c = w.nextNode()) {
      if (c.data === "vbid:" + id) {
        if (!c.nextSibling || c.nextSibling.nodeType !== 3) {
          c.parentNode.insertBefore(document.createTextNode(""), c.nextSibling);
        }
        return c.nextSibling;
      }
    }
    return null;
  }
  function send(frame) {
    if (ws.readyState === 1) ws.send(JSON.stringify(frame));
  }
  function targetID(el) {
    var id = el && el.getAttribute && el.getAttribute("data-vbid");
    return id ? +id : 0;
  }
  function listen(type) {
    if (bound[type] || type === "input") return;
    bound[type] = true;
    root.addEventListener(type, function (e) {
      for (var el = e.target; el && el !== root; el = el.parentNode) {
        var id = targetID(el);
        if (id) {
          if (type === "submit") e.preventDefault();
          send({ type: "event", target: id, event: type });
          return;
        }
      }
    }, true);
  }
  root.addEventListener("input", function (e) {
    var id = targetID(e.target);
    if (id) send({ type: "input", target: id, value: e.target.value });
  });

  function apply(p) {
    var el;
    switch (p.op) {
      case "mount":
        root.innerHTML = p.value;
        (p.events || []).forEach(listen);
        break;
      case "text":
        el = byID(p.target);
        if (el) { el.textContent = p.value; break; }
        el = textByID(p.target);
        if (el) el.data = p.value;
        break;
      case "html":
        el = byID(p.target);
        if (el) el.innerHTML = p.value;
        break;
      case "value":
        el = byID(p.target);
        if (el && el.value !== p.value) el.value = p.value;
        break;
      case "attr":
        el = byID(p.target);
        if (el) el.setAttribute(p.name, p.value);
        break;
      case "error":
        console.error("vbind:", p.value);
        break;
    }
  }
  ws.onmessage = function (m) {
    JSON.parse(m.data).forEach(apply);
  };
  ws.onclose = function () {
    console.warn("vbind: connection closed");
  };
})();`

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<div id="vbind-root">{{.Body}}</div>
<script>{{.Script}}</script>
</body>
</html>
`))

type pageData struct {
	Title  string
	Body   template.HTML
	Script template.JS
}

// writePage writes the page shell around the server-rendered body.
func writePage(w io.Writer, title, body string) error {
	return pageTemplate.Execute(w, pageData{
		Title:  title,
		Body:   template.HTML(body),
		Script: template.JS(clientScript),
	})
}

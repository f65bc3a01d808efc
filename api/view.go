package api

import (
	"net/http"
)

func (s *Server) handleViewPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(viewPageHTML))
}

const viewPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>qrgen &mdash; QR Code Generator</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0a0a0a;
    color: #e0e0e0;
    display: flex;
    justify-content: center;
    align-items: center;
    min-height: 100vh;
  }
  .card {
    background: #1a1a1a;
    border: 1px solid #333;
    border-radius: 16px;
    padding: 48px;
    text-align: center;
    max-width: 460px;
    width: 100%;
  }
  h1 { font-size: 20px; font-weight: 600; margin-bottom: 8px; }
  .subtitle { color: #888; font-size: 14px; margin-bottom: 24px; }
  form { display: flex; gap: 8px; margin-bottom: 24px; }
  input[type=text] {
    flex: 1;
    background: #0a0a0a;
    border: 1px solid #333;
    border-radius: 8px;
    color: #e0e0e0;
    padding: 10px 12px;
    font-size: 14px;
  }
  button {
    background: #2563eb;
    border: none;
    border-radius: 8px;
    color: #fff;
    padding: 10px 16px;
    font-size: 14px;
    cursor: pointer;
  }
  #qr-container {
    width: 280px; height: 280px;
    margin: 0 auto 16px;
    display: flex;
    align-items: center;
    justify-content: center;
    background: #fff;
    border-radius: 12px;
  }
  #qr-container img { width: 260px; height: 260px; }
  .waiting { color: #888; font-size: 13px; }
  #target-label { color: #888; font-size: 13px; word-break: break-all; }
</style>
</head>
<body>
<div class="card">
  <h1>Generate QR Code</h1>
  <p class="subtitle">Enter a URL or any text and render it as a scannable code</p>
  <form id="qr-form">
    <input type="text" id="target" placeholder="https://irishlab.io" autofocus>
    <button type="submit">Render</button>
  </form>
  <div id="qr-container">
    <span class="waiting">Enter a target above</span>
  </div>
  <div id="target-label"></div>
</div>
<script>
(function() {
  var form = document.getElementById('qr-form');
  var input = document.getElementById('target');
  var container = document.getElementById('qr-container');
  var label = document.getElementById('target-label');

  function clearChildren(el) {
    while (el.firstChild) el.removeChild(el.firstChild);
  }

  form.addEventListener('submit', function(e) {
    e.preventDefault();
    var target = input.value || input.placeholder;
    var img = document.createElement('img');
    img.setAttribute('alt', 'QR Code');
    img.setAttribute('src', '/qr?data=' + encodeURIComponent(target));
    clearChildren(container);
    container.appendChild(img);
    label.textContent = target;
  });
})();
</script>
</body>
</html>`

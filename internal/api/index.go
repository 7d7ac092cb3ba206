package api

// indexPage is the minimal landing page served at the root. The real UI is
// expected to live behind a reverse proxy; this keeps the service usable
// from a browser on its own.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Store Review Scraper</title>
</head>
<body>
  <h1>Store Review Scraper</h1>
  <p>POST a Google Play or Apple App Store URL to <code>/scrape</code>,
  then fetch the CSV from <code>/download/&lt;filename&gt;</code>.</p>
  <form id="scrape-form">
    <input type="url" id="url" size="60"
      placeholder="https://play.google.com/store/apps/details?id=...">
    <button type="submit">Scrape</button>
  </form>
  <pre id="result"></pre>
  <script>
    document.getElementById('scrape-form').addEventListener('submit', async (ev) => {
      ev.preventDefault();
      const resp = await fetch('/scrape', {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify({url: document.getElementById('url').value})
      });
      document.getElementById('result').textContent =
        JSON.stringify(await resp.json(), null, 2);
    });
  </script>
</body>
</html>
`

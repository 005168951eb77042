package server

// indexHTML is the embedded browse/detail frontend. It is deliberately a
// single self-contained page; the server's job is the documents, not the UI.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>SAR Records</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 60rem; color: #222; }
  h1 { font-size: 1.4rem; }
  input[type=search] { width: 20rem; padding: .4rem; }
  table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
  th, td { text-align: left; padding: .45rem .6rem; border-bottom: 1px solid #ddd; }
  th { background: #f5f5f5; }
  a.dl { margin-right: .6rem; }
  .muted { color: #888; }
</style>
</head>
<body>
<h1>Suspicious Activity Reports</h1>
<form id="searchForm">
  <input type="search" id="q" placeholder="Search institution, suspect, description">
  <button type="submit">Search</button>
</form>
<table>
  <thead>
    <tr><th>ID</th><th>Institution</th><th>Suspect</th><th>Date</th><th>Amount</th><th>Export</th></tr>
  </thead>
  <tbody id="rows"><tr><td colspan="6" class="muted">Loading…</td></tr></tbody>
</table>
<script>
async function load(q) {
  const res = await fetch('/api/records?limit=50' + (q ? '&q=' + encodeURIComponent(q) : ''));
  const data = await res.json();
  const rows = document.getElementById('rows');
  rows.innerHTML = '';
  if (!data.records.length) {
    rows.innerHTML = '<tr><td colspan="6" class="muted">No records found</td></tr>';
    return;
  }
  for (const r of data.records) {
    const tr = document.createElement('tr');
    tr.innerHTML =
      '<td>' + r.id + '</td>' +
      '<td>' + (r.institution || '—') + '</td>' +
      '<td>' + (r.suspect_name || '—') + '</td>' +
      '<td>' + (r.activity_date || '—') + '</td>' +
      '<td>' + r.amount + '</td>' +
      '<td><a class="dl" href="/api/records/' + r.id + '/pdf">PDF</a>' +
      '<a class="dl" href="/api/records/' + r.id + '/xml">8300 XML</a></td>';
    rows.appendChild(tr);
  }
}
document.getElementById('searchForm').addEventListener('submit', e => {
  e.preventDefault();
  load(document.getElementById('q').value);
});
load('');
</script>
</body>
</html>`

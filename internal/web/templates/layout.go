package templates

// HTMXSource is the script URL for htmx. The server's CSP allows this origin.
const HTMXSource = "https://unpkg.com/htmx.org@2.0.4"

const styles = `
body{font-family:system-ui,sans-serif;margin:0;color:#1f2937;background:#f9fafb}
header{background:#111827;color:#fff;padding:.75rem 1.5rem}
header a{color:#fff;text-decoration:none;font-weight:600}
main{padding:1.5rem;max-width:100%;overflow-x:auto}
.alert{border:1px solid #fca5a5;background:#fef2f2;color:#991b1b;padding:.75rem 1rem;border-radius:.375rem;margin-bottom:1rem}
.alert .code{font-family:monospace;font-size:.8em;color:#7f1d1d}
table.data{border-collapse:collapse;background:#fff;font-size:.9rem}
table.data th,table.data td{border:1px solid #e5e7eb;padding:.35rem .6rem;text-align:left;white-space:nowrap}
table.data th a{color:inherit;text-decoration:none;display:block}
table.data th.active{background:#dbeafe}
table.data td.number{text-align:right;font-variant-numeric:tabular-nums}
table.data td.absent{color:#9ca3af}
table.data tr.selected td{background:#fef9c3}
table.data tfoot td{font-size:.8rem;color:#4b5563;background:#f3f4f6}
.indicator{margin-left:.3rem;font-size:.75em}
.meta{color:#6b7280;font-size:.85rem;margin:.25rem 0 1rem}
`

// selectionScript keeps row checkboxes in sync across HTMX swaps. Selected
// rows are tracked by ingestion position, so a re-sort keeps them marked.
const selectionScript = `
(function(){
  var selected = new Set();
  function apply(root){
    root.querySelectorAll('tr[data-row]').forEach(function(tr){
      var on = selected.has(tr.dataset.row);
      tr.classList.toggle('selected', on);
      var box = tr.querySelector('input[data-row-select]');
      if (box) box.checked = on;
    });
  }
  document.addEventListener('change', function(e){
    var t = e.target;
    if (t.matches('input[data-row-select]')) {
      var row = t.closest('tr').dataset.row;
      if (t.checked) selected.add(row); else selected.delete(row);
      apply(document);
    } else if (t.matches('input[data-select-all]')) {
      document.querySelectorAll('tr[data-row]').forEach(function(tr){
        if (t.checked) selected.add(tr.dataset.row); else selected.delete(tr.dataset.row);
      });
      apply(document);
    }
  });
  document.addEventListener('htmx:afterSwap', function(){ apply(document); });
})();
`

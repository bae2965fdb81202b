package visualizationserver

// indexHTML is the single-page UI. It consumes the JSON API only; all
// chart rendering happens in the browser.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Merge Sort Visualizer</title>
<style>
  body { font-family: sans-serif; margin: 2rem auto; max-width: 900px; color: #222; }
  h1 { color: #1f77b4; }
  .chart { display: flex; align-items: flex-end; height: 220px; gap: 2px; margin: 1rem 0; }
  .bar { background: #1f77b4; flex: 1; position: relative; min-width: 8px; }
  .bar.left { background: #28a745; }
  .bar.right { background: #dc3545; }
  .bar.placed { background: #ff6b35; }
  .bar span { position: absolute; top: -1.3rem; width: 100%; text-align: center; font-size: 0.7rem; }
  .controls, .stats { margin: 1rem 0; }
  button { margin-right: 0.5rem; }
  #description { min-height: 1.5rem; font-style: italic; }
  input[type=text] { width: 24rem; }
</style>
</head>
<body>
<h1>Merge Sort Visualizer</h1>

<div class="controls">
  <input type="text" id="input" placeholder="e.g. 64,34,25,12,22,11,90" value="64,34,25,12,22,11,90">
  <button onclick="loadSample('random')">Random</button>
  <button onclick="loadSample('reverse_sorted')">Reverse</button>
  <button onclick="loadSample('nearly_sorted')">Nearly sorted</button>
  <button onclick="runSort()">Sort</button>
</div>

<div class="chart" id="chart"></div>
<div id="description"></div>

<div class="controls">
  <button onclick="firstStep()">First</button>
  <button onclick="prevStep()">Prev</button>
  <span id="position">0 / 0</span>
  <button onclick="nextStep()">Next</button>
  <button onclick="autoPlay()">Auto-play</button>
  <label>Delay (ms): <input type="number" id="delay" value="1000" min="100" max="3000" step="100"></label>
</div>

<div class="stats" id="stats"></div>

<script>
let steps = [];
let current = 0;
let timer = null;

function parseInput() {
  return document.getElementById('input').value
    .split(',').map(s => Number(s.trim())).filter(v => !Number.isNaN(v));
}

function render(values, highlights) {
  const chart = document.getElementById('chart');
  chart.innerHTML = '';
  const max = Math.max(...values, 1);
  values.forEach((v, i) => {
    const bar = document.createElement('div');
    bar.className = 'bar' + (highlights && highlights[i] ? ' ' + highlights[i] : '');
    bar.style.height = Math.max(4, 100 * v / max) + '%';
    bar.innerHTML = '<span>' + v + '</span>';
    chart.appendChild(bar);
  });
}

function showStep(i) {
  if (!steps.length) return;
  current = Math.min(Math.max(i, 0), steps.length - 1);
  const step = steps[current];
  const highlights = {};
  if (step.kind === 0) {
    for (let k = step.start; k < step.mid; k++) highlights[k] = 'left';
    for (let k = step.mid; k < step.end; k++) highlights[k] = 'right';
  } else if (step.kind === 1) {
    for (let k = step.start; k < step.end; k++) highlights[k] = 'placed';
  }
  render(step.array.map(e => e.value), highlights);
  document.getElementById('description').textContent = step.description;
  document.getElementById('position').textContent = (current + 1) + ' / ' + steps.length;
}

function firstStep() { showStep(0); }
function prevStep() { showStep(current - 1); }
function nextStep() { showStep(current + 1); }

function autoPlay() {
  if (timer) { clearInterval(timer); timer = null; return; }
  const delay = Number(document.getElementById('delay').value) || 1000;
  timer = setInterval(() => {
    if (current >= steps.length - 1) { clearInterval(timer); timer = null; return; }
    nextStep();
  }, delay);
}

async function loadSample(type) {
  const resp = await fetch('/api/sample?type=' + type + '&size=10');
  if (!resp.ok) return;
  const data = await resp.json();
  document.getElementById('input').value = data.values.join(',');
  render(data.values);
}

async function runSort() {
  const values = parseInput();
  const resp = await fetch('/api/sort', {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify({ values: values })
  });
  if (!resp.ok) {
    document.getElementById('description').textContent = await resp.text();
    return;
  }
  const data = await resp.json();
  steps = data.result.steps;
  const stats = data.result.stats;
  document.getElementById('stats').textContent =
    'Comparisons: ' + stats.comparisons +
    ' | Array accesses: ' + stats.array_accesses +
    ' | Steps: ' + stats.steps +
    ' | Depth: ' + stats.max_depth;
  showStep(0);
}

render(parseInput());
</script>
</body>
</html>
`

package generator

const pageHTML = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
   <meta charset="UTF-8"/>
   <meta name="viewport" content="width=device-width, initial-scale=1"/>
   <title>{{ .Title }}</title>
   <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css" />
   <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
   <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"></script>
   <style>
      :root {
         --bg-color: #0f172a;
         --text-color: #e2e8f0;
         --card-bg: #1e293b;
         --card-border: #334155;
         --accent: #06b6d4;
         --accent-2: #4f46e5;
         --ok: #22c55e;
      }
      body { font-family: Inter, Arial, sans-serif; max-width: 1200px; margin: 0 auto; padding: 20px;
             background-color: var(--bg-color); color: var(--text-color); }
      header { display: flex; justify-content: space-between; align-items: center; }
      .last-update { font-size: 0.85em; color: #94a3b8; }
      .kpi-grid, .story-grid, .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(220px, 1fr)); gap: 15px; margin: 20px 0; }
      .kpi, .story, .card { background: var(--card-bg); border: 1px solid var(--card-border); border-radius: 8px; padding: 15px; }
      .kpi-label, .story-label { font-size: 0.85em; color: #94a3b8; }
      .kpi-value .value, .stat-number { font-size: 2em; font-weight: 700; color: var(--accent); }
      .chart-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(450px, 1fr)); gap: 15px; }
      .chart-box { background: var(--card-bg); border: 1px solid var(--card-border); border-radius: 8px; padding: 15px; height: 320px; }
      .chart-box canvas { max-height: 250px; }
      .chart-btn { background: var(--card-border); color: var(--text-color); border: 0; padding: 4px 10px; border-radius: 4px; cursor: pointer; }
      .chart-btn.active { background: var(--accent-2); }
      .map-container { transition: opacity 0.3s ease; }
      #map { height: 500px; width: 100%; border: 2px solid var(--card-border); border-radius: 8px; margin-top: 10px; }
      table { width: 100%; border-collapse: collapse; margin-top: 10px; }
      th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid var(--card-border); }
      .reveal { opacity: 0; transform: translateY(30px); transition: opacity 0.6s ease, transform 0.6s ease; }
      .reveal.revealed { opacity: 1; transform: translateY(0); }
      .btn { position: relative; overflow: hidden; background: var(--accent); color: #fff; border: 0; padding: 8px 16px; border-radius: 6px; cursor: pointer; }
      .notification { position: fixed; top: 20px; right: 20px; background: rgba(34, 197, 94, 0.9); color: white; padding: 12px 20px;
                      border-radius: 8px; transform: translateX(120%); transition: transform 0.3s ease; z-index: 10000; }
      .notification.shown { transform: translateX(0); }
      @keyframes ripple { to { transform: scale(2); opacity: 0; } }
      @media (max-width: 768px) { .chart-grid { grid-template-columns: 1fr; } }
   </style>
</head>
<body>
   <header>
      <h1>{{ .Title }}</h1>
      <div class="last-update">Última atualização: <span id="lastUpdate">{{ element .Snapshot "lastUpdate" }}</span></div>
   </header>

   <section class="kpi-grid">
      {{ range .Snapshot.Elements }}{{ if eq .Trigger "load" }}
      <div class="kpi">
         <div class="kpi-label">{{ .Label }}</div>
         <div class="kpi-value"><span class="value" id="{{ .ID }}">{{ .Text }}</span></div>
      </div>
      {{ end }}{{ end }}
   </section>

   <section class="chart-grid">
      <div class="chart-box">
         <div>
            {{ range .Periods }}<button class="chart-btn{{ if eq . $.Snapshot.PeriodDays }} active{{ end }}" data-period="{{ . }}">{{ . }}d</button> {{ end }}
         </div>
         <canvas id="temperatureChart"></canvas>
      </div>
      <div class="chart-box">
         <select id="ndviRegion">
            {{ range .Regions }}<option value="{{ . }}"{{ if eq . $.Snapshot.NDVIRegion }} selected{{ end }}>{{ . }}</option>{{ end }}
         </select>
         <canvas id="ndviChart"></canvas>
      </div>
      <div class="chart-box"><canvas id="precipitationChart"></canvas></div>
   </section>

   <section class="map-container">
      <select id="mapLayer">
         {{ range .Layers }}<option value="{{ .Key }}"{{ if eq .Key $.Snapshot.Map.Layer }} selected{{ end }}>{{ .Name }}</option>{{ end }}
      </select>
      <div id="map"></div>
   </section>

   <section>
      <h2>Levantamentos com Drone</h2>
      <table>
         <tr><th>Levantamento</th><th>Área (ha)</th><th>Resolução (cm/px)</th><th>Data</th><th>NDVI</th><th>Cobertura</th></tr>
         {{ range .Snapshot.Surveys }}
         <tr><td>{{ .Name }}</td><td>{{ .AreaHa }}</td><td>{{ .Resolution }}</td><td>{{ .Date }}</td><td>{{ printf "%.2f" .NDVI }}</td><td>{{ .Coverage }}</td></tr>
         {{ end }}
      </table>
   </section>

   <section class="story-grid">
      {{ range .Snapshot.Elements }}{{ if eq .Trigger "visible" }}
      <div class="story">
         <div class="stat-number" id="{{ .ID }}">{{ .Text }}</div>
         <div class="story-label">{{ .Label }}</div>
      </div>
      {{ end }}{{ end }}
   </section>

   <section class="cards">
      <div class="card reveal" id="services"><h3>Serviços</h3><p>Mapeamento com drone e análise de imagens de satélite.</p></div>
      <div class="card reveal" id="impact"><h3>Impacto</h3><p>Monitoramento de reflorestamento e erosão.</p></div>
      <div class="card reveal" id="projects-grid"><h3>Projetos</h3><p>Territórios mapeados com as comunidades.</p></div>
      <div class="card reveal" id="tech"><h3>Tecnologia</h3><p>Landsat 8/9, Sentinel-2 e sensores em campo.</p></div>
   </section>
   <button class="btn" id="backToTop">Topo</button>

   <div class="notification" id="notification"></div>

   <script>
      const snapshot = {{ .SnapshotJSON }};
      const live = {{ .Live }};
      const refreshMs = {{ .RefreshMs }};
      const charts = {};
      let map, socket;

      function chartConfig(c) {
         return {
            type: c.kind,
            data: {
               labels: c.labels,
               datasets: c.series.map(s => ({
                  label: s.label, data: s.data, borderColor: s.color,
                  backgroundColor: c.kind === 'bar' ? s.color + 'b3' : s.color + '1a',
                  fill: s.fill, tension: 0.4, borderWidth: 2, borderDash: s.dashed ? [5, 5] : []
               }))
            },
            options: {
               responsive: true, maintainAspectRatio: false,
               plugins: { legend: { display: c.series.length > 1, position: 'top' } },
               scales: { y: { beginAtZero: c.beginAtZero, max: c.yMax || undefined, title: { display: true, text: c.yLabel } } }
            }
         };
      }

      function drawChart(c) {
         const existing = charts[c.id];
         if (existing) {
            existing.data.labels = c.labels;
            c.series.forEach((s, i) => { existing.data.datasets[i].data = s.data; });
            existing.update('active');
            return;
         }
         charts[c.id] = new Chart(document.getElementById(c.id).getContext('2d'), chartConfig(c));
      }

      function drawMap(m) {
         map = L.map('map').setView(m.center, m.zoom);
         L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', { attribution: '© OpenStreetMap contributors' }).addTo(map);
         m.polygons.forEach(p => L.polygon(p.coords, { color: p.color, fillColor: p.color, fillOpacity: p.fillOpacity, weight: 2 }).addTo(map).bindPopup(p.popup));
         m.markers.forEach(s => L.circleMarker(s.coords, { radius: 8, fillColor: s.color, color: '#fff', weight: 2, opacity: 1, fillOpacity: 0.8 }).addTo(map).bindPopup(s.popup));
         const c = m.coverage;
         L.polygon(c.coords, { color: c.color, fillColor: c.color, fillOpacity: c.fillOpacity, weight: 2, dashArray: '10, 10' }).addTo(map).bindPopup(c.popup);
      }

      function setText(id, text) {
         const el = document.getElementById(id);
         if (el) el.textContent = text;
      }

      function notify(message) {
         const n = document.getElementById('notification');
         n.textContent = message;
         n.classList.add('shown');
         setTimeout(() => n.classList.remove('shown'), 3000);
      }

      function apply(u) {
         switch (u.type) {
            case 'text': setText(u.id, u.text); break;
            case 'chart': drawChart(u.chart); break;
            case 'reveal': { const el = document.getElementById(u.id); if (el) el.classList.add('revealed'); break; }
            case 'notice': {
               const mc = document.querySelector('.map-container');
               mc.style.opacity = '0.7';
               setTimeout(() => { mc.style.opacity = '1'; notify(u.text); }, 500);
               break;
            }
         }
      }

      function send(msg) {
         if (socket && socket.readyState === WebSocket.OPEN) socket.send(JSON.stringify(msg));
      }

      function observe() {
         const observer = new IntersectionObserver(entries => {
            entries.forEach(e => send({ type: 'visible', id: e.target.id, ratio: e.intersectionRatio }));
         }, { threshold: [0, 0.1, 0.5, 1] });
         document.querySelectorAll('.stat-number, .reveal').forEach(el => observer.observe(el));
      }

      // Static pages: poll the snapshot written next to this file.
      async function pollSnapshot() {
         try {
            const response = await fetch('dashboard.json?_=' + Date.now());
            if (!response.ok) throw new Error('snapshot ' + response.status);
            const s = await response.json();
            s.elements.forEach(e => setText(e.id, e.text));
         } catch (error) {
            console.error('[poll] error reading dashboard.json:', error);
         }
      }

      window.onload = function() {
         snapshot.charts.forEach(drawChart);
         drawMap(snapshot.map);

         if (live) {
            socket = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
            socket.onmessage = ev => apply(JSON.parse(ev.data));
            socket.onopen = observe;
         } else {
            document.querySelectorAll('.reveal').forEach(el => el.classList.add('revealed'));
            setInterval(pollSnapshot, refreshMs);
         }

         document.querySelectorAll('.chart-btn[data-period]').forEach(btn => {
            btn.addEventListener('click', function() {
               this.parentNode.querySelectorAll('.chart-btn').forEach(b => b.classList.remove('active'));
               this.classList.add('active');
               send({ type: 'period', days: parseInt(this.dataset.period, 10) });
            });
         });
         document.getElementById('mapLayer').addEventListener('change', function() { send({ type: 'layer', layer: this.value }); });
         document.getElementById('ndviRegion').addEventListener('change', function() { send({ type: 'region', region: this.value }); });

         document.querySelectorAll('.btn').forEach(btn => {
            btn.addEventListener('click', function(e) {
               const ripple = document.createElement('span');
               const rect = this.getBoundingClientRect();
               const size = Math.max(rect.width, rect.height);
               ripple.style.cssText = 'position:absolute;width:' + size + 'px;height:' + size + 'px;left:' + (e.clientX - rect.left - size / 2) +
                  'px;top:' + (e.clientY - rect.top - size / 2) + 'px;background:rgba(255,255,255,0.3);border-radius:50%;transform:scale(0);animation:ripple 0.6s ease-out;pointer-events:none;';
               this.appendChild(ripple);
               setTimeout(() => ripple.remove(), 600);
            });
         });
         document.getElementById('backToTop').addEventListener('click', () => window.scrollTo({ top: 0, behavior: 'smooth' }));
      };
   </script>
</body>
</html>
`

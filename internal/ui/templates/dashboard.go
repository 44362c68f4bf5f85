// Package templates holds the dashboard page shell. The page itself is a
// static frame; the datastar SSE endpoints patch each tab's content in.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard renders the five-tab analytics page.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardHTML)
		return err
	})
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Sales Analytics Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@latest/bundles/datastar.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f8f9fa; }
header { background: #1e88e5; color: #fff; padding: 1rem 2rem; }
nav { display: flex; gap: .5rem; padding: .5rem 2rem; background: #fff; border-bottom: 1px solid #e0e0e0; }
nav button { border: none; background: none; padding: .6rem 1rem; cursor: pointer; border-radius: 4px 4px 0 0; }
nav button:hover { background: #e3f2fd; }
main { padding: 1.5rem 2rem; }
.modern-table { border-collapse: collapse; width: 100%; background: #fff; }
.modern-table th, .modern-table td { padding: .5rem .75rem; border-bottom: 1px solid #eee; text-align: left; }
.export { margin-top: 2rem; }
</style>
</head>
<body>
<header><h1>Sales Analytics Dashboard</h1></header>
<nav>
<button data-on-click="@get('/sse/overview')">Overview</button>
<button data-on-click="@get('/sse/new-products')">New Products</button>
<button data-on-click="@get('/sse/segments')">Customer Segments</button>
<button data-on-click="@get('/sse/affinity')">Product Affinity</button>
<button data-on-click="@get('/sse/penetration')">Market Penetration</button>
<button data-on-click="@get('/sse/refresh-all')">Refresh All</button>
</nav>
<main data-on-load="@get('/sse/overview')">
<div id="overview-content">Loading…</div>
<div id="new-products-content"></div>
<div id="segments-content"></div>
<div id="affinity-content"></div>
<div id="penetration-content"></div>
<div class="export"><a href="/api/export">Download Excel report</a></div>
</main>
</body>
</html>
`

package timeline

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/mxkvch/valentine/internal/config"
)

// ClientConfig is the bootstrap object handed to the browser app.
type ClientConfig struct {
	APIBaseURL           string `json:"apiBaseUrl"`
	CardsListPath        string `json:"cardsListPath"`
	CardByIDPathTemplate string `json:"cardByIdPathTemplate"`
	ImagesPath           string `json:"imagesPath"`
	TimerPath            string `json:"timerPath"`
	RequestTimeoutMs     int    `json:"requestTimeoutMs"`
	CacheTTLMs           int    `json:"cacheTtlMs"`
	MaxMoments           int    `json:"maxMoments"`
	BatchSize            int    `json:"batchSize"`
	MaxRetries           int    `json:"maxRetries"`
	TimerSyncIntervalMs  int    `json:"timerSyncIntervalMs"`
}

func NewClientConfig(cfg *config.Timeline) ClientConfig {
	return ClientConfig{
		APIBaseURL:           cfg.APIBaseURL,
		CardsListPath:        cfg.CardsListPath,
		CardByIDPathTemplate: cfg.CardByIDPathTemplate,
		ImagesPath:           cfg.ImagesPath,
		TimerPath:            cfg.TimerPath,
		RequestTimeoutMs:     cfg.RequestTimeoutMs,
		CacheTTLMs:           cfg.CacheTTLMs,
		MaxMoments:           cfg.MaxMoments,
		BatchSize:            cfg.BatchSize,
		MaxRetries:           cfg.MaxRetries,
		TimerSyncIntervalMs:  cfg.TimerSyncIntervalMs,
	}
}

// safeJSONScript serializes the config for inline <script> embedding. "</" is
// escaped so a malicious path value cannot close the script tag.
func safeJSONScript(value ClientConfig) string {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return "{}"
	}
	raw := strings.TrimRight(buf.String(), "\n")
	return strings.ReplaceAll(raw, "</", `<\/`)
}

func buildPageHTML(clientConfig ClientConfig) string {
	var b strings.Builder
	b.WriteString(`<!doctype html>`)
	b.WriteString(`<html lang="en">`)
	b.WriteString(`<head>`)
	b.WriteString(`<meta charset="utf-8" />`)
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1" />`)
	b.WriteString(`<title>Valentine Timeline</title>`)
	b.WriteString(`<link rel="stylesheet" href="/static/timeline.css" />`)
	b.WriteString(`</head>`)
	b.WriteString(`<body>`)
	b.WriteString(`<main class="timeline-shell" id="timeline-app">`)
	b.WriteString(`<section class="countdown" id="countdown" aria-live="polite">`)
	b.WriteString(`<p class="countdown-label">Вместе уже</p>`)
	b.WriteString(`<p class="countdown-value" id="countdown-value">...</p>`)
	b.WriteString(`<p class="countdown-meta" id="countdown-meta"></p>`)
	b.WriteString(`</section>`)
	b.WriteString(`<header class="timeline-hero">`)
	b.WriteString(`<p class="timeline-kicker">Наши моменты</p>`)
	b.WriteString(`<h1>Любовь это все <span aria-hidden="true">&#9825;</span></h1>`)
	b.WriteString(`<p class="timeline-subtitle">То что не получится забыть</p>`)
	b.WriteString(`</header>`)
	b.WriteString(`<p id="timeline-status" class="sr-only" aria-live="polite"></p>`)
	b.WriteString(`<section id="timeline" class="timeline" aria-label="Moments timeline" role="list"></section>`)
	b.WriteString(`<div id="timeline-sentinel" class="timeline-sentinel" aria-hidden="true"></div>`)
	b.WriteString(`</main>`)
	b.WriteString(`<noscript>`)
	b.WriteString(`<section class="timeline-noscript">`)
	b.WriteString(`<h2>JavaScript is required</h2>`)
	b.WriteString(`<p>Please enable JavaScript to view the interactive timeline.</p>`)
	b.WriteString(`</section>`)
	b.WriteString(`</noscript>`)
	b.WriteString(`<script>window.__TIMELINE_CONFIG__=`)
	b.WriteString(safeJSONScript(clientConfig))
	b.WriteString(`;</script>`)
	b.WriteString(`<script type="module" src="/static/timeline-app.mjs"></script>`)
	b.WriteString(`</body>`)
	b.WriteString(`</html>`)
	return b.String()
}

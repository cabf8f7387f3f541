package timer

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mxkvch/valentine/internal/logger"
	"github.com/mxkvch/valentine/internal/web"
)

// isoMillis matches the wire format the clients already parse.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Handler serves the elapsed-time JSON and the HTML clock view.
type Handler struct {
	start time.Time
	log   logger.Logger
	now   func() time.Time
}

func NewHandler(start time.Time, log logger.Logger) *Handler {
	return &Handler{start: start.UTC(), log: log, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	for _, path := range []string{"/time", "/api/timer"} {
		r.Get(path, h.Time)
	}
	r.Get("/view", h.View)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	web.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type timeResponse struct {
	Since        string  `json:"since"`
	Now          string  `json:"now"`
	Elapsed      Elapsed `json:"elapsed"`
	TotalSeconds int64   `json:"totalSeconds"`
}

func (h *Handler) Time(w http.ResponseWriter, _ *http.Request) {
	now := h.now().UTC()
	elapsed, totalSeconds := calculateElapsed(h.start, now)

	web.WriteJSON(w, http.StatusOK, timeResponse{
		Since:        h.start.Format(isoMillis),
		Now:          now.Format(isoMillis),
		Elapsed:      elapsed,
		TotalSeconds: totalSeconds,
	})
}

func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	theme := "light"
	if strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("theme")), "dark") {
		theme = "dark"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(strings.ReplaceAll(viewHTML, "__THEME__", theme)))
}

const viewHTML = `<!doctype html>
<html lang="en" data-theme="__THEME__">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Timer</title>
    <style>
      :root {
        --bg: #f7f8fa;
        --fg: #14171a;
        --muted: #5f6670;
        --error: #b00020;
      }

      html[data-theme="dark"] {
        --bg: #111319;
        --fg: #f1f4f8;
        --muted: #a7afba;
        --error: #ff7f96;
      }

      html, body {
        width: 100%;
        height: 100%;
        margin: 0;
      }

      body {
        background: var(--bg);
        color: var(--fg);
        font-family: monospace;
      }

      .viewport {
        width: 100vw;
        height: 100vh;
        box-sizing: border-box;
        padding: 20vh 20vw;
      }

      .timer {
        width: 100%;
        height: 100%;
        display: flex;
        align-items: center;
        justify-content: center;
        flex-direction: column;
        text-align: center;
      }

      h1 {
        margin: 0 0 12px;
        font-size: clamp(20px, 2.5vw, 34px);
      }

      .meta {
        margin: 0;
        color: var(--muted);
        font-size: clamp(11px, 1.2vw, 16px);
      }

      .clock {
        margin: 18px 0 14px;
        font-size: clamp(24px, 5vw, 64px);
        line-height: 1.2;
      }

      .error {
        margin: 10px 0 0;
        color: var(--error);
        font-size: clamp(12px, 1.3vw, 16px);
      }
    </style>
  </head>
  <body>
    <main class="viewport">
      <section class="timer">
        <h1>Timer</h1>
        <p class="meta">This timer will never stop</p>
        <p class="clock" id="elapsed">-</p>
        <p class="error" id="error"></p>
      </section>
    </main>
    <script>
      async function refresh() {
        const errorNode = document.getElementById("error");
        try {
          const response = await fetch("/api/timer");
          if (!response.ok) {
            throw new Error("bad response");
          }
          const payload = await response.json();
          const e = payload.elapsed;
          document.getElementById("elapsed").textContent =
            e.years + "y " + e.days + "d " + e.hours + "h " + e.minutes + "m " + e.seconds + "s";
          errorNode.textContent = "";
        } catch (_err) {
          errorNode.textContent = "error loading time";
        }
      }

      refresh();
      setInterval(refresh, 1000);
    </script>
  </body>
</html>
`

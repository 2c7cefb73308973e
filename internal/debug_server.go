// Package internal hosts the operator-only inspect dashboard. It runs
// on its own port, separate from the public HTTP surface, and reads the
// store directly.
package internal

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	Key       string
	ID        string
	Role      string
	Recipient string
	Timestamp string
	Title     string
	Message   string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// StartDebugServer serves the inspect page on its own listener. The
// handler scans the requested prefix on every request so the page always
// reflects the current store.
func StartDebugServer(db *badger.DB, port int, endpoint string, mapper RowMapper, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	if mapper == nil {
		mapper = NotificationMapper
	}

	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "notif:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}

		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		// Listens on all interfaces so operators can reach it remotely
		_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), mux)
	}()
}

// NotificationMapper decodes a stored notification value. Keys that hold
// something else fall back to a raw row instead of breaking the page.
func NotificationMapper(key string, val []byte) InspectRow {
	row := rawRow(key, val)

	var record struct {
		ID            string `json:"id"`
		Title         string `json:"title"`
		Message       string `json:"message"`
		CreatedAt     int64  `json:"created_at"`
		RecipientRole string `json:"recipient_role"`
		RecipientID   string `json:"recipient_id"`
	}
	if err := json.Unmarshal(val, &record); err != nil || record.ID == "" {
		return row
	}

	row.ID = record.ID
	if len(row.ID) > 8 {
		row.ID = row.ID[:8]
	}
	row.Role = record.RecipientRole
	row.Recipient = record.RecipientID
	row.Timestamp = time.Unix(0, record.CreatedAt).UTC().Format("15:04:05")
	row.Title = record.Title
	row.Message = record.Message
	return row
}

func rawRow(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:       key,
		ID:        "--------",
		Role:      "-",
		Recipient: "-",
		Timestamp: "--:--:--",
		Title:     "RAW",
		Message:   "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	// "notif:{role}:{recipient}:{ts}:{uuid}" still tells us a lot even
	// when the value does not decode.
	parts := strings.Split(key, ":")
	if len(parts) >= 5 {
		row.Role = parts[1]
		row.Recipient = parts[2]
		if tsNano, err := strconv.ParseInt(parts[3], 10, 64); err == nil {
			row.Timestamp = time.Unix(0, tsNano).UTC().Format("15:04:05")
		}
	}
	return row
}

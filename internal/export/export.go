// Package export serializes entries for download as CSV, JSON or iCalendar.
// Entries are written in the order given.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/julianstephens/daydicated/internal/constants"
	"github.com/julianstephens/daydicated/internal/models"
)

// Record is the exported shape of an entry
type Record struct {
	UserID string `json:"userId"`
	Date   string `json:"date"`
	Rating int    `json:"rating"`
	Note   string `json:"note"`
}

func toRecord(e models.Entry) Record {
	return Record{UserID: e.OwnerID, Date: e.Date, Rating: e.Rating, Note: e.Note}
}

var csvHeader = []string{"userId", "date", "rating", "note"}

// CSV renders a header row and one row per entry. Fields containing a
// comma, quote or line break are quoted with inner quotes doubled; every
// other field is written as is.
func CSV(entries []models.Entry) ([]byte, error) {
	var buf bytes.Buffer
	writeCSVRow(&buf, csvHeader)
	for _, e := range entries {
		writeCSVRow(&buf, []string{e.OwnerID, e.Date, strconv.Itoa(e.Rating), e.Note})
	}
	return buf.Bytes(), nil
}

func writeCSVRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(csvField(f))
	}
	buf.WriteByte('\n')
}

func csvField(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// JSON renders the entries as an indented array
func JSON(entries []models.Entry) ([]byte, error) {
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, toRecord(e))
	}
	return json.MarshalIndent(records, "", "  ")
}

// ICS renders one all-day event per entry
func ICS(entries []models.Entry, year int) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, constants.ICSProductID)
	cal.Props.SetText("X-WR-CALNAME", fmt.Sprintf("%s %d", constants.AppName, year))

	now := time.Now().UTC()
	for _, e := range entries {
		day, err := time.Parse(constants.DateFormat, e.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q for %s: %w", e.Date, e.OwnerID, err)
		}

		vevent := ical.NewComponent(ical.CompEvent)
		vevent.Props.SetText(ical.PropUID, models.EntryKey(e.OwnerID, e.Date)+"@"+constants.AppName)
		vevent.Props.SetDateTime(ical.PropDateTimeStamp, now)
		vevent.Props.SetText(ical.PropSummary, Summary(e.Rating))
		if e.Note != "" {
			vevent.Props.SetText(ical.PropDescription, e.Note)
		}

		dtstart := ical.NewProp(ical.PropDateTimeStart)
		dtstart.SetDate(day)
		vevent.Props.Set(dtstart)

		dtend := ical.NewProp(ical.PropDateTimeEnd)
		dtend.SetDate(day.AddDate(0, 0, 1))
		vevent.Props.Set(dtend)

		cal.Children = append(cal.Children, vevent)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

// Summary is the event title for a rating, e.g. "★★★ (3/5)"
func Summary(rating int) string {
	stars := max(rating, 0)
	return fmt.Sprintf("%s (%d/%d)", strings.Repeat("★", stars), rating, constants.MaxRating)
}

// File is a named blob ready to be saved
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// ParseFormat maps a user-supplied format name to an ExportFormat
func ParseFormat(s string) (constants.ExportFormat, error) {
	switch f := constants.ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case constants.ExportCSV, constants.ExportJSON, constants.ExportICS:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv, json or ics)", s)
	}
}

// Build serializes entries in the given format and names the result
func Build(format constants.ExportFormat, year int, entries []models.Entry) (File, error) {
	base := fmt.Sprintf("%s-%d", constants.AppName, year)

	var (
		data []byte
		mime string
		err  error
	)
	switch format {
	case constants.ExportCSV:
		data, err = CSV(entries)
		mime = constants.MIMECSV
	case constants.ExportJSON:
		data, err = JSON(entries)
		mime = constants.MIMEJSON
	case constants.ExportICS:
		data, err = ICS(entries, year)
		mime = constants.MIMEICS
	default:
		return File{}, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return File{}, fmt.Errorf("failed to export %s: %w", format, err)
	}

	return File{Name: base + "." + string(format), MIMEType: mime, Data: data}, nil
}

// Save writes the file into dir and returns its path. The file appears
// under its final name only once fully written.
func (f File) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+f.Name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(f.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}

	dest := filepath.Join(dir, f.Name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("failed to save export: %w", err)
	}
	return dest, nil
}

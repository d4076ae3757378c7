package report

import (
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"io"
	"text/template"
	"time"

	"github.com/FranksOps/bramble/internal/analyzer"
	"github.com/FranksOps/bramble/internal/storage"
)

// maxTopTerms caps the term table in generated summaries.
const maxTopTerms = 10

// Summary contains aggregated metrics about a discovery session.
type Summary struct {
	TotalQuestions int
	TotalAnswered  int
	TotalSeeds     int
	TotalRelated   int
	AnswerRate     float64 // percentage of questions with an extracted answer
	ByCategory     map[string]int
	AnswersBySrc   map[string]int
	TopTerms       []analyzer.TermCount
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

// GenerateSummary processes a slice of question records to generate summary metrics.
// Records persisted without a category are classified here.
func GenerateSummary(records []*storage.Record) Summary {
	s := Summary{
		ByCategory:   make(map[string]int),
		AnswersBySrc: make(map[string]int),
	}

	if len(records) == 0 {
		return s
	}

	s.StartTime = records[0].CreatedAt
	s.EndTime = records[0].CreatedAt

	seeds := make(map[string]struct{})
	questions := make([]string, 0, len(records))

	for _, r := range records {
		s.TotalQuestions++
		if r.HasAnswer {
			s.TotalAnswered++
			if src := r.Fields["source"]; src != "" {
				s.AnswersBySrc[src]++
			}
		}
		if r.Seed != "" {
			seeds[r.Seed] = struct{}{}
		}
		questions = append(questions, r.Question)
		s.TotalRelated += len(r.Related)

		cat := r.Category
		if cat == "" {
			cat = string(analyzer.Classify(r.Question))
		}
		s.ByCategory[cat]++

		if r.CreatedAt.Before(s.StartTime) {
			s.StartTime = r.CreatedAt
		}
		if r.CreatedAt.After(s.EndTime) {
			s.EndTime = r.CreatedAt
		}
	}

	s.TotalSeeds = len(seeds)
	s.AnswerRate = 100 * float64(s.TotalAnswered) / float64(s.TotalQuestions)
	s.TopTerms = analyzer.TopTerms(questions, maxTopTerms)
	s.Duration = s.EndTime.Sub(s.StartTime)
	return s
}

// WriteJSON writes the summary to the provided writer in JSON format.
func WriteJSON(w io.Writer, summary Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("context: %w", err)
	}
	return nil
}

// WriteText writes a human-readable text summary to the provided writer.
func WriteText(w io.Writer, summary Summary) error {
	const textTmpl = `Bramble Discovery Summary
-------------------------
Time:            {{.StartTime.Format "2006-01-02 15:04:05"}} - {{.EndTime.Format "2006-01-02 15:04:05"}}
Duration:        {{.Duration}}
Seeds:           {{.TotalSeeds}}
Questions:       {{.TotalQuestions}}
Answered:        {{.TotalAnswered}} ({{printf "%.1f%%" .AnswerRate}})
Related Links:   {{.TotalRelated}}

Categories:
{{- range $cat, $count := .ByCategory}}
  {{$cat}}: {{$count}}
{{- else}}
  None
{{- end}}

Top Terms:
{{- range .TopTerms}}
  {{.Term}}: {{.Count}}
{{- else}}
  None
{{- end}}

Answer Sources:
{{- range $src, $count := .AnswersBySrc}}
  {{$src}}: {{$count}}
{{- else}}
  None
{{- end}}
`

	t, err := template.New("textReport").Parse(textTmpl)
	if err != nil {
		return fmt.Errorf("context: %w", err)
	}

	if err := t.Execute(w, summary); err != nil {
		return fmt.Errorf("context: %w", err)
	}

	return nil
}

// WriteHTML writes a basic HTML report to the provided writer. Source names
// come off the result page, so this goes through html/template for escaping.
func WriteHTML(w io.Writer, summary Summary) error {
	const htmlTmpl = `<!DOCTYPE html>
<html>
<head>
<title>Bramble Discovery Report</title>
<style>
  body { font-family: sans-serif; margin: 40px; color: #333; }
  h1 { border-bottom: 2px solid #ccc; padding-bottom: 10px; }
  .stat-card { display: inline-block; padding: 20px; margin: 10px 10px 10px 0; background: #f4f4f4; border-radius: 5px; min-width: 150px; }
  .stat-val { font-size: 24px; font-weight: bold; }
  table { border-collapse: collapse; margin-top: 10px; }
  th, td { padding: 8px 12px; border: 1px solid #ccc; text-align: left; }
  th { background: #eaeaea; }
</style>
</head>
<body>
  <h1>Bramble Discovery Report</h1>
  <p><strong>Time:</strong> {{.StartTime.Format "2006-01-02 15:04:05"}} to {{.EndTime.Format "2006-01-02 15:04:05"}} ({{.Duration}})</p>

  <div class="stat-card">
    <div>Questions</div>
    <div class="stat-val">{{.TotalQuestions}}</div>
  </div>
  <div class="stat-card">
    <div>Answered</div>
    <div class="stat-val" style="color: {{if gt .TotalAnswered 0}}green{{else}}red{{end}};">{{.TotalAnswered}}</div>
  </div>
  <div class="stat-card">
    <div>Seeds</div>
    <div class="stat-val">{{.TotalSeeds}}</div>
  </div>
  <div class="stat-card">
    <div>Related Links</div>
    <div class="stat-val">{{.TotalRelated}}</div>
  </div>

  <h3>Categories</h3>
  <table>
    <tr><th>Category</th><th>Count</th></tr>
    {{- range $cat, $count := .ByCategory}}
    <tr><td>{{$cat}}</td><td>{{$count}}</td></tr>
    {{- else}}
    <tr><td colspan="2">None</td></tr>
    {{- end}}
  </table>

  <h3>Top Terms</h3>
  <table>
    <tr><th>Term</th><th>Count</th></tr>
    {{- range .TopTerms}}
    <tr><td>{{.Term}}</td><td>{{.Count}}</td></tr>
    {{- else}}
    <tr><td colspan="2">None</td></tr>
    {{- end}}
  </table>

  <h3>Answer Sources</h3>
  <table>
    <tr><th>Source</th><th>Count</th></tr>
    {{- range $src, $count := .AnswersBySrc}}
    <tr><td>{{$src}}</td><td>{{$count}}</td></tr>
    {{- else}}
    <tr><td colspan="2">None</td></tr>
    {{- end}}
  </table>
</body>
</html>
`
	t, err := htmltemplate.New("htmlReport").Parse(htmlTmpl)
	if err != nil {
		return fmt.Errorf("context: %w", err)
	}

	if err := t.Execute(w, summary); err != nil {
		return fmt.Errorf("context: %w", err)
	}

	return nil
}

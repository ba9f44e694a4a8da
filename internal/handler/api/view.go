package api

import (
	"fmt"
	"strings"

	"HealthPull/internal/domain/models"
	"HealthPull/pkg/util"
)

type tab struct {
	ID     string
	Title  string
	Active bool
}

// chart is what the page script needs to draw one line chart.
type chart struct {
	ID     string         `json:"id"`
	XField string         `json:"x"`
	YField string         `json:"y"`
	Color  string         `json:"color"`
	Time   bool           `json:"time"`
	Domain []float64      `json:"domain,omitempty"`
	Points []models.Point `json:"points"`
}

type pageData struct {
	D        *models.Dashboard
	Tabs     []tab
	Start    string
	End      string
	MinDate  string
	MaxDate  string
	Charts   []chart
	Weekdays []models.WeekdayAverage
	Code     string
}

var tabTitles = []tab{
	{ID: "sleep", Title: "Sleep"},
	{ID: "steps", Title: "Steps"},
	{ID: "heart", Title: "Heart"},
	{ID: "glucose", Title: "Glucose"},
	{ID: "code", Title: "Code Example"},
}

func newPageData(d *models.Dashboard, apiBase string) pageData {
	p := pageData{
		D:        d,
		Start:    d.Window.StartDate(),
		End:      d.Window.EndDate(),
		MinDate:  util.FormatDate(d.MinDate),
		MaxDate:  util.FormatDate(d.MaxDate),
		Charts:   make([]chart, 0, 4),
		Weekdays: d.Sleep.Weekdays,
		Code:     codeExample(apiBase, d.Window),
	}
	for _, t := range tabTitles {
		t.Active = t.ID == d.ActiveTab
		p.Tabs = append(p.Tabs, t)
	}

	// sleep and heart pin the y axis to the observed range
	add := func(id string, v models.SeriesView, temporal, domain bool) {
		if v.Empty() {
			return
		}
		c := chart{ID: id, XField: v.XField, YField: v.YField, Color: v.Color, Time: temporal, Points: v.Points}
		if domain {
			c.Domain = []float64{v.YMin, v.YMax}
		}
		p.Charts = append(p.Charts, c)
	}
	add("sleep-chart", d.Sleep.Series, false, true)
	add("steps-chart", d.Steps, false, false)
	add("heart-chart", d.Heart, false, true)
	add("glucose-chart", d.Glucose, true, false)
	return p
}

func codeExample(apiBase string, w models.Window) string {
	base := strings.TrimRight(apiBase, "/")
	var b strings.Builder
	fmt.Fprintf(&b, "url := fmt.Sprintf(\n")
	fmt.Fprintf(&b, "\t\"%s/metrics/sleep/?user_id=%%s&start_date=%%s&end_date=%%s\",\n", base)
	fmt.Fprintf(&b, "\tuserID, %q, %q,\n)\n", w.StartDate(), w.EndDate())
	b.WriteString("req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)\n")
	b.WriteString("req.Header.Set(\"authorizationtoken\", os.Getenv(\"CLIENT_SECRET\"))\n")
	b.WriteString("resp, err := http.DefaultClient.Do(req)\n")
	b.WriteString("if err != nil {\n\treturn err\n}\n")
	b.WriteString("defer resp.Body.Close()\n")
	b.WriteString("if resp.StatusCode < 400 {\n")
	b.WriteString("\tvar payload struct {\n\t\tData []map[string]interface{} `json:\"data\"`\n\t}\n")
	b.WriteString("\terr = json.NewDecoder(resp.Body).Decode(&payload)\n}\n")
	return b.String()
}

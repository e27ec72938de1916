package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/fcast/internal/model"
)

// writeModel creates a model file under dir and returns its path.
func writeModel(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const tomlModel = `
name = "Harbour Festival"
updated_at = "2026-04-01T09:00:00Z"

[duration]
unit = "weekly"
length = 8

[[revenue_streams]]
name = "Ticket Sales"
base_value = 25

[[revenue_streams]]
name = "Sponsorship"
base_value = 4000
kind = "fixed"

[[cost_categories]]
name = "Bar stock"
  [cost_categories.attribution]
  role = "food_beverage"
  percent = 30

[event]
initial_attendance = 300

[event.growth]
law = "exponential"
attendance_rate = 5

[marketing]
budget = 1200
policy = "upfront"
`

const yamlModel = `
name: Pop-up Market
duration:
  length: 4
revenue_streams:
  - name: Merch
    base_value: 12
event:
  initial_attendance: 50
  cogs:
    merchandise: 40
marketing:
  channels:
    - name: Social
      budget: 400
      policy: spread_custom
      spread_length: 2
`

const jsonModel = `{
  "id": "webinar-series",
  "duration": {"unit": "monthly", "length": 3},
  "revenue_streams": [{"name": "Subscriptions", "base_value": 900, "kind": "recurring"}],
  "event": {"growth": {"law": "linear", "rate": 10}}
}`

func TestParseFile_TOML(t *testing.T) {
	dir := t.TempDir()
	path := writeModel(t, dir, "harbour.toml", tomlModel)

	res := ParseFile(DiscoveredFile{Path: path, Name: "harbour", Format: "toml"})
	if res.Err != nil {
		t.Fatalf("ParseFile: %v", res.Err)
	}
	m := res.Model

	if m.Name != "Harbour Festival" {
		t.Errorf("Name = %q, want Harbour Festival", m.Name)
	}
	if m.ID != "harbour" {
		t.Errorf("ID = %q, want harbour", m.ID)
	}
	want := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	if !m.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt = %v, want %v", m.UpdatedAt, want)
	}
	if m.Duration.Unit != model.UnitWeekly || m.Duration.Length != 8 {
		t.Errorf("Duration = %+v, want weekly/8", m.Duration)
	}
	if len(m.RevenueStreams) != 2 {
		t.Fatalf("RevenueStreams = %d, want 2", len(m.RevenueStreams))
	}
	if m.RevenueStreams[0].Role != model.RoleTicket {
		t.Errorf("RevenueStreams[0].Role = %q, want ticket", m.RevenueStreams[0].Role)
	}
	if m.RevenueStreams[1].Kind != model.KindFixed {
		t.Errorf("RevenueStreams[1].Kind = %q, want fixed", m.RevenueStreams[1].Kind)
	}
	attr := m.CostCategories[0].Attribution
	if attr == nil || attr.Percent != 30 || attr.Role != model.RoleFoodBeverage {
		t.Errorf("Attribution = %+v, want food_beverage/30", attr)
	}
	if m.Event.Growth.AttendanceRate != 5 {
		t.Errorf("AttendanceRate = %v, want 5", m.Event.Growth.AttendanceRate)
	}
	if m.Marketing.Mode != model.ModeAggregate || m.Marketing.Policy != model.PolicyUpfront {
		t.Errorf("Marketing = %+v, want aggregate/upfront", m.Marketing)
	}
	if res.SizeBytes == 0 || res.MtimeNs == 0 {
		t.Errorf("file metadata not recorded: size=%d mtime=%d", res.SizeBytes, res.MtimeNs)
	}
}

func TestParseFile_YAMLUpgradesLegacyCOGS(t *testing.T) {
	dir := t.TempDir()
	path := writeModel(t, dir, "popup.yaml", yamlModel)

	res := ParseFile(DiscoveredFile{Path: path, Name: "popup"})
	if res.Err != nil {
		t.Fatalf("ParseFile: %v", res.Err)
	}
	m := res.Model

	if m.RevenueStreams[0].Role != model.RoleMerchandise {
		t.Errorf("Role = %q, want merchandise", m.RevenueStreams[0].Role)
	}
	if len(m.CostCategories) != 1 || m.CostCategories[0].Attribution == nil {
		t.Fatalf("CostCategories = %+v, want one attributed category", m.CostCategories)
	}
	if got := m.CostCategories[0].Attribution.Percent; got != 40 {
		t.Errorf("COGS percent = %v, want 40", got)
	}
	if m.Marketing.Mode != model.ModePerChannel {
		t.Errorf("Mode = %q, want per_channel", m.Marketing.Mode)
	}
	if m.Marketing.Channels[0].SpreadLength != 2 {
		t.Errorf("SpreadLength = %d, want 2", m.Marketing.Channels[0].SpreadLength)
	}
	if m.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should fall back to the file mtime")
	}
}

func TestParseFile_JSONKeepsID(t *testing.T) {
	dir := t.TempDir()
	path := writeModel(t, dir, "web.json", jsonModel)

	res := ParseFile(DiscoveredFile{Path: path, Name: "web"})
	if res.Err != nil {
		t.Fatalf("ParseFile: %v", res.Err)
	}
	if res.Model.ID != "webinar-series" {
		t.Errorf("ID = %q, want webinar-series", res.Model.ID)
	}
	if res.Model.Name != "web" {
		t.Errorf("Name = %q, want web", res.Model.Name)
	}
	if res.Model.Event.Growth.Law != model.LawLinear {
		t.Errorf("Law = %q, want linear", res.Model.Event.Growth.Law)
	}
}

func TestParseFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := writeModel(t, dir, "broken.json", `{"duration": `)

	if res := ParseFile(DiscoveredFile{Path: path}); res.Err == nil {
		t.Error("expected error for malformed JSON")
	}
	if res := ParseFile(DiscoveredFile{Path: filepath.Join(dir, "missing.toml")}); res.Err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDecode(t *testing.T) {
	m, err := Decode([]byte(jsonModel), "json")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Duration.Length != 3 {
		t.Errorf("Length = %d, want 3", m.Duration.Length)
	}
	if m.SchemaVersion != model.CurrentSchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", m.SchemaVersion, model.CurrentSchemaVersion)
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "a.toml", tomlModel)
	writeModel(t, dir, "summer/b.yml", yamlModel)
	writeModel(t, dir, "summer/c.json", jsonModel)
	writeModel(t, dir, "notes.txt", "ignore me")
	writeModel(t, dir, ".drafts/d.toml", tomlModel)

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("ScanDir found %d files, want 3: %+v", len(files), files)
	}
	if got := CountGroups(files); got != 2 {
		t.Errorf("CountGroups = %d, want 2", got)
	}
	for _, f := range files {
		if f.Name == "b" && (f.Group != "summer" || f.Format != "yaml") {
			t.Errorf("b.yml = %+v, want group summer, format yaml", f)
		}
	}
}

func TestScanDir_Missing(t *testing.T) {
	files, err := ScanDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil || files != nil {
		t.Errorf("ScanDir(missing) = %v, %v; want nil, nil", files, err)
	}
}

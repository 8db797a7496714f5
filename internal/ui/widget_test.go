package ui

import (
	"strings"
	"testing"

	"github.com/lumipallolabs/storagespace/internal/config"
	"github.com/lumipallolabs/storagespace/internal/model"
)

func sampleVolumes(n int) []model.Volume {
	vols := make([]model.Volume, n)
	for i := range vols {
		vols[i] = model.Volume{
			ID:         string(rune('a' + i)),
			Name:       "Disk " + string(rune('A'+i)),
			TotalBytes: 100 * model.GB,
			FreeBytes:  int64(i+1) * 10 * model.GB,
		}
	}
	return vols
}

func TestLimitVolumes(t *testing.T) {
	vols := sampleVolumes(10)
	tests := []struct {
		class config.SizeClass
		want  int
	}{
		{config.SizeSmall, 1},
		{config.SizeMedium, 4},
		{config.SizeLarge, 8},
		{config.SizeAll, 10},
	}
	for _, tt := range tests {
		got := LimitVolumes(vols, tt.class)
		if len(got) != tt.want {
			t.Errorf("%s: expected %d volumes, got %d", tt.class, tt.want, len(got))
		}
		if len(got) > 0 && got[0].Name != "Disk A" {
			t.Errorf("%s: expected OS order to be kept, got %s first", tt.class, got[0].Name)
		}
	}

	if got := LimitVolumes(vols[:2], config.SizeLarge); len(got) != 2 {
		t.Errorf("expected short lists untouched, got %d", len(got))
	}
}

func TestPercentCaption(t *testing.T) {
	vol := model.Volume{Name: "Data", TotalBytes: 200, FreeBytes: 50}
	if got := PercentCaption(vol, true); got != "75% full" {
		t.Errorf("expected 75%% full, got %s", got)
	}
	if got := PercentCaption(vol, false); got != "25% free" {
		t.Errorf("expected 25%% free, got %s", got)
	}

	empty := model.Volume{Name: "Empty"}
	if got := PercentCaption(empty, true); got != "-" {
		t.Errorf("expected placeholder for a zero-capacity volume, got %s", got)
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(sampleVolumes(6), config.SizeMedium, true)
	if n := strings.Count(out, "\n") + 1; n != 4 {
		t.Errorf("expected 4 rows, got %d", n)
	}
	if !strings.Contains(out, "Disk A") || strings.Contains(out, "Disk E") {
		t.Errorf("unexpected summary contents:\n%s", out)
	}

	if out := RenderSummary(nil, config.SizeAll, true); !strings.Contains(out, "No volumes") {
		t.Errorf("expected empty message, got %q", out)
	}
}

func TestSeverityColors(t *testing.T) {
	if SeverityColor(model.UsageSeverity(80)) != ColorDanger {
		t.Error("expected danger for high usage")
	}
	if SeverityColor(model.UsageSeverity(60)) != ColorWarning {
		t.Error("expected warning for medium usage")
	}
	if SeverityColor(model.UsageSeverity(10)) != ColorSuccess {
		t.Error("expected success for low usage")
	}
	if FreeSpaceColor(60) != ColorSuccess || FreeSpaceColor(30) != ColorWarning || FreeSpaceColor(25) != ColorDanger {
		t.Error("unexpected free-space banding")
	}
}

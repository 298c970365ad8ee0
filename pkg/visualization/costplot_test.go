package visualization

import (
	"os"
	"path/filepath"
	"testing"

	"livewire/pkg/livewire"
)

// TestCostMapPlot verifies the bar chart setup for a learned cost map
func TestCostMapPlot(t *testing.T) {
	p, err := CostMapPlot(livewire.CostMap{70: 0, 50: 0.8, 12: 0.5}, "learned")
	if err != nil {
		t.Fatalf("Failed to create plot: %v", err)
	}
	if p.Title.Text != "learned" {
		t.Errorf("Expected title %q, got %q", "learned", p.Title.Text)
	}
	if p.Y.Min != 0 || p.Y.Max != 1 {
		t.Errorf("Expected y range [0,1], got [%g,%g]", p.Y.Min, p.Y.Max)
	}

	if _, err := CostMapPlot(nil, "empty"); err == nil {
		t.Error("Expected error for empty cost map, got nil")
	}
}

// TestSaveCostMapPlot verifies that the plot can be written to disk
func TestSaveCostMapPlot(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	filename := filepath.Join(t.TempDir(), "costmap.png")
	if err := SaveCostMapPlot(livewire.CostMap{3: 0.25, 4: 0}, "learned", filename); err != nil {
		t.Fatalf("Failed to save plot: %v", err)
	}
	info, err := os.Stat(filename)
	if err != nil {
		t.Fatalf("Saved file does not exist: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty plot file")
	}
}

package water

import "testing"

func TestStepDayAvailabilityBounds(t *testing.T) {
	d := NewData(200, 50)
	et, avail, err := d.StepDay(DayInputs{Precipitation: 10, Temperature: 15, PotentialET: 3, LAI: 2})
	if err != nil {
		t.Fatal(err)
	}
	if avail < 0 || avail > 1 {
		t.Errorf("availability %v out of [0,1]", avail)
	}
	if et < 0 {
		t.Errorf("et should not be negative, got %v", et)
	}
}

func TestStepDaySnowAccumulatesBelowFreezing(t *testing.T) {
	d := NewData(200, 50)
	if _, _, err := d.StepDay(DayInputs{Precipitation: 10, Temperature: -5, PotentialET: 0, LAI: 0}); err != nil {
		t.Fatal(err)
	}
	if d.SnowPack != 10 {
		t.Errorf("got snowpack %v, want 10", d.SnowPack)
	}
}

func TestStepDayNegativePrecipitationErrors(t *testing.T) {
	d := NewData(200, 50)
	if _, _, err := d.StepDay(DayInputs{Precipitation: -1}); err == nil {
		t.Error("expected error for negative precipitation")
	}
}

func TestPermafrostThawsWithPositiveDegreeDays(t *testing.T) {
	p := NewPermafrost(2.0, 0.2)
	for i := 0; i < 30; i++ {
		p.StepDay(10, 0)
	}
	if p.ActiveLayerDepth <= 0 {
		t.Errorf("expected thaw depth > 0 after warm days, got %v", p.ActiveLayerDepth)
	}
	if p.ActiveLayerDepth > p.MaxActiveLayerDepth {
		t.Errorf("thaw depth %v exceeds max %v", p.ActiveLayerDepth, p.MaxActiveLayerDepth)
	}
}

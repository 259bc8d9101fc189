package items

import "testing"

func cameraCategory() *CategoryConfig {
	return &CategoryConfig{
		CategoryID:     1,
		Name:           "Camera",
		SerialTracked:  true,
		RequiredFields: []string{"mount", "sensor"},
	}
}

func TestValidateItemCollectsAllErrors(t *testing.T) {
	// Several fields wrong at once: every problem must be reported in a
	// single pass, not just the first one hit.
	errs := ValidateItem(ItemForm{
		Name:       "",
		Brand:      "",
		Category:   "Camera",
		Serial:     "SN-100",
		SpecFields: map[string]string{"mount": "EF"}, // sensor missing
	}, ValidationContext{
		Category:        cameraCategory(),
		ExistingSerials: map[string]string{"SN-100": "CA1001"},
		ExistingCodes:   map[string]bool{},
	})

	for _, field := range []string{"name", "brand", "serial", "spec_fields.sensor"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for %q, got %v", field, errs)
		}
	}
	if len(errs) != 4 {
		t.Errorf("expected exactly 4 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidateItemCleanForm(t *testing.T) {
	errs := ValidateItem(ItemForm{
		Name:       "EOS R5",
		Brand:      "Canon",
		Category:   "Camera",
		Serial:     "SN-200",
		SpecFields: map[string]string{"mount": "RF", "sensor": "FF"},
	}, ValidationContext{
		Category:        cameraCategory(),
		ExistingSerials: map[string]string{},
		ExistingCodes:   map[string]bool{},
	})
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateItemSerialRules(t *testing.T) {
	vctx := ValidationContext{
		Category:        cameraCategory(),
		ExistingSerials: map[string]string{"SN-100": "CA1001"},
		ExistingCodes:   map[string]bool{},
	}
	form := ItemForm{
		Name:       "EOS R5",
		Brand:      "Canon",
		Category:   "Camera",
		SpecFields: map[string]string{"mount": "RF", "sensor": "FF"},
	}

	// Tracked category: empty serial is an error.
	form.Serial = ""
	if errs := ValidateItem(form, vctx); errs["serial"] == "" {
		t.Error("expected serial-required error for tracked category")
	}

	// Duplicate serial on another item.
	form.Serial = "SN-100"
	if errs := ValidateItem(form, vctx); errs["serial"] == "" {
		t.Error("expected duplicate-serial error")
	}

	// Full-width input folds to the same key before comparison.
	form.Serial = "ＳＮ－１００"
	if errs := ValidateItem(form, vctx); errs["serial"] == "" {
		t.Error("expected duplicate-serial error for full-width variant")
	}

	// The edited item may keep its own serial.
	form.Serial = "SN-100"
	vctx.EditingCode = "CA1001"
	if errs := ValidateItem(form, vctx); errs["serial"] != "" {
		t.Errorf("editing owner must keep its serial, got %v", errs)
	}
}

func TestValidateItemCategoryAndCode(t *testing.T) {
	vctx := ValidationContext{
		ExistingSerials: map[string]string{},
		ExistingCodes:   map[string]bool{"CA1001": true},
	}

	errs := ValidateItem(ItemForm{Name: "x", Brand: "y", Category: "Nope"}, vctx)
	if errs["category"] == "" {
		t.Error("expected unconfigured-category error")
	}

	disabled := cameraCategory()
	disabled.IsDisabled = true
	vctx.Category = disabled
	errs = ValidateItem(ItemForm{Name: "x", Brand: "y", Category: "Camera", Serial: "S1",
		SpecFields: map[string]string{"mount": "m", "sensor": "s"}}, vctx)
	if errs["category"] == "" {
		t.Error("expected disabled-category error")
	}

	vctx.Category = cameraCategory()
	errs = ValidateItem(ItemForm{Name: "x", Brand: "y", Category: "Camera", Serial: "S1", Code: "CA1001",
		SpecFields: map[string]string{"mount": "m", "sensor": "s"}}, vctx)
	if errs["code"] == "" {
		t.Error("expected duplicate-code error")
	}
}

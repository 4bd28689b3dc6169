package grid

import "testing"

func TestActionBuildersStampPresentation(t *testing.T) {
	edit := EditAction(RowAction{Hidden: true})
	if edit.Title != "Edit" || edit.Color != ColorBlue || !edit.Hidden {
		t.Fatalf("unexpected edit action: %+v", edit)
	}
	del := DeleteAction(RowAction{Disabled: true})
	if del.Title != "Delete" || del.Color != ColorRed || !del.Disabled {
		t.Fatalf("unexpected delete action: %+v", del)
	}
	dup := DuplicateAction(RowAction{})
	if dup.Title != "Duplicate" || dup.Color != ColorGreen {
		t.Fatalf("unexpected duplicate action: %+v", dup)
	}
	cancel := CancelAction(RowAction{})
	if cancel.Title != "Cancel" || cancel.Color != ColorRed {
		t.Fatalf("unexpected cancel action: %+v", cancel)
	}
}

func TestActionBuildersLeaveBaseUntouched(t *testing.T) {
	base := RowAction{Tooltip: "keep me"}
	_ = EditAction(base)
	_ = DeleteAction(base)
	if base.Title != "" || base.Color != ColorNeutral {
		t.Fatalf("builder mutated its input: %+v", base)
	}
}

func TestViewActionNavigates(t *testing.T) {
	nav := func(modelType string, modelID int64) string {
		return "https://example.com/" + modelType + "/42"
	}
	a := ViewAction(RowAction{ModelType: "build", ModelID: 42}, nav)
	if a.Title != "View" {
		t.Fatalf("expected default title, got %q", a.Title)
	}
	msg := a.OnClick()()
	navMsg, ok := msg.(NavigateMsg)
	if !ok {
		t.Fatalf("expected NavigateMsg, got %T", msg)
	}
	if navMsg.URL != "https://example.com/build/42" {
		t.Fatalf("unexpected URL %q", navMsg.URL)
	}
}

func TestViewActionKeepsCustomTitle(t *testing.T) {
	a := ViewAction(RowAction{Title: "View Build Order"}, nil)
	if a.Title != "View Build Order" {
		t.Fatalf("custom title overwritten: %q", a.Title)
	}
	if cmd := a.OnClick(); cmd != nil {
		t.Fatalf("nil navigator should produce no command")
	}
}

func TestRoleSetGatesVisibility(t *testing.T) {
	caps := RoleSet{"purchase_order.delete": true}
	visible := DeleteAction(RowAction{Hidden: !caps.HasRole("purchase_order.delete")})
	if visible.Hidden {
		t.Fatalf("holder of the role should see the action")
	}
	hidden := DeleteAction(RowAction{Hidden: !caps.HasRole("purchase_order.change")})
	if !hidden.Hidden {
		t.Fatalf("missing role should hide the action")
	}
}

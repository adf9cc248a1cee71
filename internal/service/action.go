package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Action types accepted by Dispatch.
const (
	ActionSelectClass    = "select_class"
	ActionSelectStudent  = "select_student"
	ActionJump           = "jump"
	ActionSelectDocument = "select_document"
	ActionSelectTab      = "select_tab"
	ActionToggleEdit     = "toggle_edit"
	ActionEdit           = "edit"
	ActionUndo           = "undo"
	ActionApprove        = "approve"
	ActionOpenReject     = "open_reject"
	ActionDraftNote      = "draft_note"
	ActionConfirmReject  = "confirm_reject"
	ActionCancelReject   = "cancel_reject"
	ActionZoomIn         = "zoom_in"
	ActionZoomOut        = "zoom_out"
	ActionSetZoom        = "set_zoom"
	ActionSetLayout      = "set_layout"
	ActionToggleDocument = "toggle_document"
)

// Action is one operator event against a session.
type Action struct {
	Type      string   `json:"type" validate:"required,oneof=select_class select_student jump select_document select_tab toggle_edit edit undo approve open_reject draft_note confirm_reject cancel_reject zoom_in zoom_out set_zoom set_layout toggle_document"`
	Class     string   `json:"class,omitempty"`
	StudentID string   `json:"studentId,omitempty"`
	Category  string   `json:"category,omitempty"`
	Tab       string   `json:"tab,omitempty"`
	Path      string   `json:"path,omitempty" validate:"max=256"`
	Value     any      `json:"value,omitempty"`
	Note      string   `json:"note" validate:"max=2000"`
	Zoom      *float64 `json:"zoom,omitempty" validate:"omitempty,gt=0"`
	Layout    string   `json:"layout,omitempty" validate:"omitempty,oneof=split document data"`
}

func (s *verificationService) validateAction(a Action) error {
	if err := s.validate.Struct(a); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return fmt.Errorf("%w: field %s failed %s", ErrInvalidAction, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}

	missing := ""
	switch a.Type {
	case ActionSelectClass:
		if a.Class == "" {
			missing = "class"
		}
	case ActionSelectStudent, ActionJump:
		if a.StudentID == "" {
			missing = "studentId"
		}
	case ActionSelectDocument:
		if a.Category == "" {
			missing = "category"
		}
	case ActionSelectTab:
		if a.Tab == "" {
			missing = "tab"
		}
	case ActionEdit:
		if a.Path == "" {
			missing = "path"
		}
	case ActionSetZoom:
		if a.Zoom == nil {
			missing = "zoom"
		}
	case ActionSetLayout:
		if a.Layout == "" {
			missing = "layout"
		}
	}
	if missing != "" {
		return fmt.Errorf("%w: %s is required for %s", ErrInvalidAction, missing, a.Type)
	}
	return nil
}

// Package viewmodel presents settings models as rows and sections ready for
// rendering.
package viewmodel

import "companion/internal/settings/models"

// ActionFunc is invoked when an action row is tapped.
type ActionFunc[I models.Item] func(item I)

// RowViewModel is one rendered row.
type RowViewModel[I models.Item] struct {
	Item                I
	ShouldShowSeparator bool
	actionTapped        ActionFunc[I]
}

func NewRowViewModel[I models.Item](item I, showSeparator bool, onAction ActionFunc[I]) RowViewModel[I] {
	return RowViewModel[I]{Item: item, ShouldShowSeparator: showSeparator, actionTapped: onAction}
}

// ExecuteActionIfNeeded runs the action callback for action rows and reports
// whether it ran. Navigation rows are left to the router.
func (r RowViewModel[I]) ExecuteActionIfNeeded() bool {
	if r.Item.RowType() != models.RowTypeAction || r.actionTapped == nil {
		return false
	}
	r.actionTapped(r.Item)
	return true
}

// SectionViewModel is one rendered section.
type SectionViewModel[I models.Item] struct {
	model    models.SectionModel[I]
	onAction ActionFunc[I]
}

func NewSectionViewModel[I models.Item](model models.SectionModel[I], onAction ActionFunc[I]) SectionViewModel[I] {
	return SectionViewModel[I]{model: model, onAction: onAction}
}

// Title is empty for sections without a heading.
func (s SectionViewModel[I]) Title() string {
	if s.model.Type == nil {
		return ""
	}
	return s.model.Type.Title()
}

func (s SectionViewModel[I]) Len() int {
	return len(s.model.Items)
}

// ShouldShowSeparator is true for every row but the last.
func (s SectionViewModel[I]) ShouldShowSeparator(index int) bool {
	return index != len(s.model.Items)-1
}

// ItemAt returns the item at index; ok is false when index is out of range.
func (s SectionViewModel[I]) ItemAt(index int) (item I, ok bool) {
	if index < 0 || index >= len(s.model.Items) {
		return item, false
	}
	return s.model.Items[index], true
}

func (s SectionViewModel[I]) Rows() []RowViewModel[I] {
	rows := make([]RowViewModel[I], 0, len(s.model.Items))
	for i, item := range s.model.Items {
		rows = append(rows, NewRowViewModel(item, s.ShouldShowSeparator(i), s.onAction))
	}
	return rows
}

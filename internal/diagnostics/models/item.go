// Package models defines diagnostics items, their categories, and the
// per-type set they are stored in.
package models

import "fmt"

// ItemType is a diagnostics category. The string form is the wire name used
// by the HTTP API.
type ItemType string

const (
	ItemTypePlatform               ItemType = "platform"
	ItemTypeModel                  ItemType = "model"
	ItemTypeAppVersion             ItemType = "app_version"
	ItemTypeUserID                 ItemType = "user_id"
	ItemTypeLocale                 ItemType = "locale"
	ItemTypeTimezone               ItemType = "timezone"
	ItemTypeConnectivity           ItemType = "connectivity"
	ItemTypeConnectedSocials       ItemType = "connected_socials"
	ItemTypeConnectedHealthSources ItemType = "connected_health_sources"
)

// DisplayOrder is the fixed order used for display and export, independent
// of insertion order.
var DisplayOrder = []ItemType{
	ItemTypePlatform,
	ItemTypeModel,
	ItemTypeAppVersion,
	ItemTypeUserID,
	ItemTypeLocale,
	ItemTypeTimezone,
	ItemTypeConnectivity,
	ItemTypeConnectedSocials,
	ItemTypeConnectedHealthSources,
}

var itemTitles = map[ItemType]string{
	ItemTypePlatform:               "Platform",
	ItemTypeModel:                  "Model",
	ItemTypeAppVersion:             "App version",
	ItemTypeUserID:                 "User ID",
	ItemTypeLocale:                 "Locale",
	ItemTypeTimezone:               "Timezone",
	ItemTypeConnectivity:           "Connectivity",
	ItemTypeConnectedSocials:       "Connected socials",
	ItemTypeConnectedHealthSources: "Connected health sources",
}

// UserProperty is an analytics user-property key.
type UserProperty string

const (
	UserPropertyPlatform               UserProperty = "platform"
	UserPropertyDeviceModel            UserProperty = "device_model"
	UserPropertyAppVersion             UserProperty = "app_version"
	UserPropertyUserID                 UserProperty = "user_id"
	UserPropertyLocale                 UserProperty = "locale"
	UserPropertyTimezone               UserProperty = "timezone"
	UserPropertyConnectivity           UserProperty = "connectivity"
	UserPropertyConnectedSocials       UserProperty = "connected_socials"
	UserPropertyConnectedHealthSources UserProperty = "connected_health_sources"
)

var userProperties = map[ItemType]UserProperty{
	ItemTypePlatform:               UserPropertyPlatform,
	ItemTypeModel:                  UserPropertyDeviceModel,
	ItemTypeAppVersion:             UserPropertyAppVersion,
	ItemTypeUserID:                 UserPropertyUserID,
	ItemTypeLocale:                 UserPropertyLocale,
	ItemTypeTimezone:               UserPropertyTimezone,
	ItemTypeConnectivity:           UserPropertyConnectivity,
	ItemTypeConnectedSocials:       UserPropertyConnectedSocials,
	ItemTypeConnectedHealthSources: UserPropertyConnectedHealthSources,
}

// ParseItemType validates a wire name.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown diagnostics item type %q", s)
	}
	return t, nil
}

func (t ItemType) IsValid() bool {
	_, ok := itemTitles[t]
	return ok
}

// Title is the human-readable heading used in reports.
func (t ItemType) Title() string {
	return itemTitles[t]
}

// UserProperty returns the analytics key this category is reported under.
func (t ItemType) UserProperty() UserProperty {
	return userProperties[t]
}

// IsUserSpecific reports whether the category describes the signed-in user
// rather than the device. These items are purged on sign-out.
func (t ItemType) IsUserSpecific() bool {
	return t == ItemTypeUserID || t == ItemTypeConnectedSocials
}

// Rank is the position of t in DisplayOrder, or -1 for unknown types.
func (t ItemType) Rank() int {
	for i, ordered := range DisplayOrder {
		if ordered == t {
			return i
		}
	}
	return -1
}

// Item is a single diagnostics fact. Identity is the Type alone: two items
// with the same type are the same entry, whatever their values.
type Item struct {
	Type  ItemType `json:"type"`
	Value string   `json:"value"`
}

// SameAs reports whether i and other occupy the same slot in a Set.
func (i Item) SameAs(other Item) bool {
	return i.Type == other.Type
}

// Title is shorthand for i.Type.Title().
func (i Item) Title() string {
	return i.Type.Title()
}

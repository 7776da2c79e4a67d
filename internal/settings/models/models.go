// Package models describes the settings screen: sections of rows, each row
// either navigating somewhere or triggering an action in place.
package models

import "fmt"

// RowType decides what tapping a row does.
type RowType string

const (
	RowTypeAction     RowType = "action"
	RowTypeNavigation RowType = "navigation"
)

// Route names a destination screen.
type Route string

const (
	RouteMyOrders          Route = "my_orders"
	RoutePersonalInfo      Route = "personal_info"
	RouteAccountSettings   Route = "account_settings"
	RouteHelpCenter        Route = "help_center"
	RouteTermsAndCondition Route = "terms_and_conditions"
	RoutePrivacyPolicy     Route = "privacy_policy"
	RouteAppUsageInfo      Route = "app_usage_info"
	RouteDiagnosticsPage   Route = "diagnostics_page"
)

// Item is a row on a settings screen.
type Item interface {
	Title() string
	RowType() RowType
	// Route is the destination of navigation rows; ok is false for actions.
	Route() (route Route, ok bool)
}

// Section groups rows under a heading.
type Section interface {
	Title() string
}

// SectionModel is one group of rows. A nil Type groups rows without a
// heading.
type SectionModel[I Item] struct {
	Type  Section
	Items []I
}

// AppSection is a section of the app settings screen.
type AppSection string

const (
	AppSectionAccount AppSection = "account"
	AppSectionInfo    AppSection = "info"
	AppSectionSupport AppSection = "support"
)

var appSectionTitles = map[AppSection]string{
	AppSectionAccount: "Account",
	AppSectionInfo:    "Information",
	AppSectionSupport: "Support",
}

func (s AppSection) Title() string {
	return appSectionTitles[s]
}

// AppItem is a row of the app settings screen.
type AppItem string

const (
	AppItemMyOrders        AppItem = "my_orders"
	AppItemPersonalInfo    AppItem = "personal_info"
	AppItemAccountSettings AppItem = "account_settings"
	AppItemContactUs       AppItem = "contact_us"
	AppItemHelpCenter      AppItem = "help_center"
	AppItemTermsOfService  AppItem = "terms_of_service"
	AppItemPrivacyPolicy   AppItem = "privacy_policy"
	AppItemHowToUse        AppItem = "how_to_use"
	AppItemRateApp         AppItem = "rate_app"
	AppItemDiagnosticsPage AppItem = "diagnostics_page"
)

type appItemInfo struct {
	title string
	route Route
}

var appItems = map[AppItem]appItemInfo{
	AppItemMyOrders:        {title: "My orders", route: RouteMyOrders},
	AppItemPersonalInfo:    {title: "Personal information", route: RoutePersonalInfo},
	AppItemAccountSettings: {title: "Integrations", route: RouteAccountSettings},
	AppItemContactUs:       {title: "Contact us"},
	AppItemHelpCenter:      {title: "Help center", route: RouteHelpCenter},
	AppItemTermsOfService:  {title: "Terms & conditions", route: RouteTermsAndCondition},
	AppItemPrivacyPolicy:   {title: "Privacy policy", route: RoutePrivacyPolicy},
	AppItemHowToUse:        {title: "How to use", route: RouteAppUsageInfo},
	AppItemRateApp:         {title: "Rate the app"},
	AppItemDiagnosticsPage: {title: "Diagnostics", route: RouteDiagnosticsPage},
}

// ParseAppItem validates a wire name.
func ParseAppItem(s string) (AppItem, error) {
	item := AppItem(s)
	if _, ok := appItems[item]; !ok {
		return "", fmt.Errorf("unknown settings item %q", s)
	}
	return item, nil
}

func (i AppItem) Title() string {
	return appItems[i].title
}

// RowType is action for rows without a destination.
func (i AppItem) RowType() RowType {
	if appItems[i].route == "" {
		return RowTypeAction
	}
	return RowTypeNavigation
}

func (i AppItem) Route() (Route, bool) {
	r := appItems[i].route
	return r, r != ""
}

// AppSectionModel is a section of the app settings screen.
type AppSectionModel = SectionModel[AppItem]

// AppSections is the app settings screen, top to bottom.
func AppSections() []AppSectionModel {
	return []AppSectionModel{
		{
			Type:  AppSectionAccount,
			Items: []AppItem{AppItemPersonalInfo, AppItemMyOrders, AppItemAccountSettings},
		},
		{
			Type:  AppSectionInfo,
			Items: []AppItem{AppItemHowToUse, AppItemTermsOfService, AppItemPrivacyPolicy},
		},
		{
			Type:  AppSectionSupport,
			Items: []AppItem{AppItemHelpCenter, AppItemContactUs, AppItemDiagnosticsPage, AppItemRateApp},
		},
	}
}

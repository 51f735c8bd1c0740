package v1alpha1

import (
	"encoding/json"

	"k8s.io/apimachinery/pkg/util/sets"
)

// ComponentKind is the wire key of a component variant.
type ComponentKind string

const (
	ComponentText      ComponentKind = "Text"
	ComponentImage     ComponentKind = "Image"
	ComponentIcon      ComponentKind = "Icon"
	ComponentRow       ComponentKind = "Row"
	ComponentColumn    ComponentKind = "Column"
	ComponentList      ComponentKind = "List"
	ComponentCard      ComponentKind = "Card"
	ComponentDivider   ComponentKind = "Divider"
	ComponentButton    ComponentKind = "Button"
	ComponentTextField ComponentKind = "TextField"
	ComponentCheckBox  ComponentKind = "CheckBox"
)

type TextUsageHint string

const (
	TextUsageH1      TextUsageHint = "h1"
	TextUsageH2      TextUsageHint = "h2"
	TextUsageH3      TextUsageHint = "h3"
	TextUsageH4      TextUsageHint = "h4"
	TextUsageH5      TextUsageHint = "h5"
	TextUsageCaption TextUsageHint = "caption"
	TextUsageBody    TextUsageHint = "body"
)

type ImageFit string

const (
	ImageFitContain   ImageFit = "contain"
	ImageFitCover     ImageFit = "cover"
	ImageFitFill      ImageFit = "fill"
	ImageFitNone      ImageFit = "none"
	ImageFitScaleDown ImageFit = "scale-down"
)

type ImageUsageHint string

const (
	ImageUsageIcon          ImageUsageHint = "icon"
	ImageUsageAvatar        ImageUsageHint = "avatar"
	ImageUsageSmallFeature  ImageUsageHint = "smallFeature"
	ImageUsageMediumFeature ImageUsageHint = "mediumFeature"
	ImageUsageLargeFeature  ImageUsageHint = "largeFeature"
	ImageUsageHeader        ImageUsageHint = "header"
)

// Distribution is the main-axis arrangement of a Row or Column.
type Distribution string

const (
	DistributionStart        Distribution = "start"
	DistributionCenter       Distribution = "center"
	DistributionEnd          Distribution = "end"
	DistributionSpaceAround  Distribution = "spaceAround"
	DistributionSpaceBetween Distribution = "spaceBetween"
	DistributionSpaceEvenly  Distribution = "spaceEvenly"
)

// Alignment is the cross-axis arrangement of a Row, Column or List.
type Alignment string

const (
	AlignmentStart   Alignment = "start"
	AlignmentCenter  Alignment = "center"
	AlignmentEnd     Alignment = "end"
	AlignmentStretch Alignment = "stretch"
)

type ListDirection string

const (
	ListDirectionVertical   ListDirection = "vertical"
	ListDirectionHorizontal ListDirection = "horizontal"
)

type DividerAxis string

const (
	DividerAxisHorizontal DividerAxis = "horizontal"
	DividerAxisVertical   DividerAxis = "vertical"
)

type TextFieldType string

const (
	TextFieldDate      TextFieldType = "date"
	TextFieldLongText  TextFieldType = "longText"
	TextFieldNumber    TextFieldType = "number"
	TextFieldShortText TextFieldType = "shortText"
	TextFieldObscured  TextFieldType = "obscured"
)

// IconName is one of the icons every renderer must ship.
type IconName string

const (
	IconAccountCircle    IconName = "accountCircle"
	IconAdd              IconName = "add"
	IconArrowBack        IconName = "arrowBack"
	IconArrowForward     IconName = "arrowForward"
	IconAttachFile       IconName = "attachFile"
	IconCalendarToday    IconName = "calendarToday"
	IconCall             IconName = "call"
	IconCamera           IconName = "camera"
	IconCheck            IconName = "check"
	IconClose            IconName = "close"
	IconDelete           IconName = "delete"
	IconDownload         IconName = "download"
	IconEdit             IconName = "edit"
	IconEvent            IconName = "event"
	IconError            IconName = "error"
	IconFavorite         IconName = "favorite"
	IconFavoriteOff      IconName = "favoriteOff"
	IconFolder           IconName = "folder"
	IconHelp             IconName = "help"
	IconHome             IconName = "home"
	IconInfo             IconName = "info"
	IconLocationOn       IconName = "locationOn"
	IconLock             IconName = "lock"
	IconLockOpen         IconName = "lockOpen"
	IconMail             IconName = "mail"
	IconMenu             IconName = "menu"
	IconMoreVert         IconName = "moreVert"
	IconMoreHoriz        IconName = "moreHoriz"
	IconNotificationsOff IconName = "notificationsOff"
	IconNotifications    IconName = "notifications"
	IconPayment          IconName = "payment"
	IconPerson           IconName = "person"
	IconPhone            IconName = "phone"
	IconPhoto            IconName = "photo"
	IconPrint            IconName = "print"
	IconRefresh          IconName = "refresh"
	IconSearch           IconName = "search"
	IconSend             IconName = "send"
	IconSettings         IconName = "settings"
	IconShare            IconName = "share"
	IconShoppingCart     IconName = "shoppingCart"
	IconStar             IconName = "star"
	IconStarHalf         IconName = "starHalf"
	IconStarOff          IconName = "starOff"
	IconUpload           IconName = "upload"
	IconVisibility       IconName = "visibility"
	IconVisibilityOff    IconName = "visibilityOff"
	IconWarning          IconName = "warning"
)

func enumSet[T ~string](values ...T) sets.Set[string] {
	s := sets.New[string]()
	for _, v := range values {
		s.Insert(string(v))
	}
	return s
}

// Closed value sets. Anything outside them is a schema violation.
var (
	ValidComponentKinds = enumSet(ComponentText, ComponentImage, ComponentIcon, ComponentRow, ComponentColumn,
		ComponentList, ComponentCard, ComponentDivider, ComponentButton, ComponentTextField, ComponentCheckBox)
	ValidTextUsageHints = enumSet(TextUsageH1, TextUsageH2, TextUsageH3, TextUsageH4, TextUsageH5,
		TextUsageCaption, TextUsageBody)
	ValidImageFits        = enumSet(ImageFitContain, ImageFitCover, ImageFitFill, ImageFitNone, ImageFitScaleDown)
	ValidImageUsageHints  = enumSet(ImageUsageIcon, ImageUsageAvatar, ImageUsageSmallFeature, ImageUsageMediumFeature, ImageUsageLargeFeature, ImageUsageHeader)
	ValidDistributions    = enumSet(DistributionStart, DistributionCenter, DistributionEnd, DistributionSpaceAround, DistributionSpaceBetween, DistributionSpaceEvenly)
	ValidAlignments       = enumSet(AlignmentStart, AlignmentCenter, AlignmentEnd, AlignmentStretch)
	ValidListDirections   = enumSet(ListDirectionVertical, ListDirectionHorizontal)
	ValidDividerAxes      = enumSet(DividerAxisHorizontal, DividerAxisVertical)
	ValidTextFieldTypes   = enumSet(TextFieldDate, TextFieldLongText, TextFieldNumber, TextFieldShortText, TextFieldObscured)
	ValidIconNames        = enumSet(
		IconAccountCircle, IconAdd, IconArrowBack, IconArrowForward, IconAttachFile, IconCalendarToday,
		IconCall, IconCamera, IconCheck, IconClose, IconDelete, IconDownload, IconEdit, IconEvent, IconError,
		IconFavorite, IconFavoriteOff, IconFolder, IconHelp, IconHome, IconInfo, IconLocationOn, IconLock,
		IconLockOpen, IconMail, IconMenu, IconMoreVert, IconMoreHoriz, IconNotificationsOff, IconNotifications,
		IconPayment, IconPerson, IconPhone, IconPhoto, IconPrint, IconRefresh, IconSearch, IconSend,
		IconSettings, IconShare, IconShoppingCart, IconStar, IconStarHalf, IconStarOff, IconUpload,
		IconVisibility, IconVisibilityOff, IconWarning,
	)
)

// ComponentInstance places one component, under a surface-unique id, in a surface's component set.
type ComponentInstance struct {
	// ID is unique within the surface and is what other components reference
	// +kubebuilder:validation:Required
	ID string `json:"id"`

	// Weight is the flex weight inside a Row or Column
	// +optional
	Weight *float64 `json:"weight,omitempty"`

	// Component holds exactly one component variant
	// +kubebuilder:validation:Required
	Component Component `json:"component"`
}

// Component is a union over the supported widget types. Exactly one field is set.
type Component struct {
	Text      *Text      `json:"Text,omitempty"`
	Image     *Image     `json:"Image,omitempty"`
	Icon      *Icon      `json:"Icon,omitempty"`
	Row       *Row       `json:"Row,omitempty"`
	Column    *Column    `json:"Column,omitempty"`
	List      *List      `json:"List,omitempty"`
	Card      *Card      `json:"Card,omitempty"`
	Divider   *Divider   `json:"Divider,omitempty"`
	Button    *Button    `json:"Button,omitempty"`
	TextField *TextField `json:"TextField,omitempty"`
	CheckBox  *CheckBox  `json:"CheckBox,omitempty"`
}

func (c Component) variants() []variant {
	return []variant{
		{string(ComponentText), c.Text != nil},
		{string(ComponentImage), c.Image != nil},
		{string(ComponentIcon), c.Icon != nil},
		{string(ComponentRow), c.Row != nil},
		{string(ComponentColumn), c.Column != nil},
		{string(ComponentList), c.List != nil},
		{string(ComponentCard), c.Card != nil},
		{string(ComponentDivider), c.Divider != nil},
		{string(ComponentButton), c.Button != nil},
		{string(ComponentTextField), c.TextField != nil},
		{string(ComponentCheckBox), c.CheckBox != nil},
	}
}

// Kind reports the populated variant, or "" when none or several are set.
func (c Component) Kind() ComponentKind {
	var kind ComponentKind
	for _, v := range c.variants() {
		if !v.set {
			continue
		}
		if kind != "" {
			return ""
		}
		kind = ComponentKind(v.key)
	}
	return kind
}

// UnmarshalJSON enforces that exactly one component variant is present.
func (c *Component) UnmarshalJSON(data []byte) error {
	type plain Component
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if err := checkUnion("Component", Component(p).variants()...); err != nil {
		return err
	}
	*c = Component(p)
	return nil
}

// Text displays a string.
type Text struct {
	Text StringValue `json:"text"`
	// +optional
	UsageHint TextUsageHint `json:"usageHint,omitempty"`
}

// Image displays an image from a URL.
type Image struct {
	URL StringValue `json:"url"`
	// +optional
	Fit ImageFit `json:"fit,omitempty"`
	// +optional
	UsageHint ImageUsageHint `json:"usageHint,omitempty"`
}

// Icon displays a named icon. A literal name must be one of the IconName constants.
type Icon struct {
	Name StringValue `json:"name"`
}

// Children lists the children of a container: either fixed ids or a
// template repeated once per item of a data model list.
type Children struct {
	// +optional
	ExplicitList []string `json:"explicitList,omitempty"`
	// +optional
	Template *ChildTemplate `json:"template,omitempty"`
}

// ChildTemplate repeats ComponentID for every entry found at DataBinding.
type ChildTemplate struct {
	ComponentID string `json:"componentId"`
	DataBinding string `json:"dataBinding"`
}

// UnmarshalJSON enforces that exactly one of explicitList and template is present.
func (c *Children) UnmarshalJSON(data []byte) error {
	type plain Children
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if err := checkUnion("Children",
		variant{"explicitList", p.ExplicitList != nil},
		variant{"template", p.Template != nil},
	); err != nil {
		return err
	}
	*c = Children(p)
	return nil
}

// MarshalJSON keeps an empty explicitList on the wire instead of dropping it.
func (c Children) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}
	if c.ExplicitList != nil || c.Template == nil {
		list := c.ExplicitList
		if list == nil {
			list = []string{}
		}
		out["explicitList"] = list
	}
	if c.Template != nil {
		out["template"] = c.Template
	}
	return json.Marshal(out)
}

// ExplicitChildren is shorthand for a fixed child list.
func ExplicitChildren(ids ...string) Children {
	if ids == nil {
		ids = []string{}
	}
	return Children{ExplicitList: ids}
}

// Row lays its children out horizontally.
type Row struct {
	Children Children `json:"children"`
	// +optional
	Distribution Distribution `json:"distribution,omitempty"`
	// +optional
	Alignment Alignment `json:"alignment,omitempty"`
}

// Column lays its children out vertically.
type Column struct {
	Children Children `json:"children"`
	// +optional
	Distribution Distribution `json:"distribution,omitempty"`
	// +optional
	Alignment Alignment `json:"alignment,omitempty"`
}

// List is a scrollable container, usually with templated children.
type List struct {
	Children Children `json:"children"`
	// +optional
	Direction ListDirection `json:"direction,omitempty"`
	// +optional
	Alignment Alignment `json:"alignment,omitempty"`
}

// Card wraps a single child in a raised container.
type Card struct {
	Child string `json:"child"`
}

// Divider draws a separator line.
type Divider struct {
	// +optional
	Axis DividerAxis `json:"axis,omitempty"`
}

// Button renders Child and dispatches Action back to the agent when pressed.
type Button struct {
	Child  string `json:"child"`
	Action Action `json:"action"`
	// +optional
	Primary bool `json:"primary,omitempty"`
}

// TextField is an editable text input whose value lives at Text's path.
type TextField struct {
	Label StringValue `json:"label"`
	// +optional
	Text *StringValue `json:"text,omitempty"`
	// +optional
	TextFieldType TextFieldType `json:"textFieldType,omitempty"`
	// +optional
	ValidationRegexp string `json:"validationRegexp,omitempty"`
}

// CheckBox is a labelled boolean input.
type CheckBox struct {
	Label StringValue  `json:"label"`
	Value BooleanValue `json:"value"`
}

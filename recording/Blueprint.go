package recording

// ViewKind names the view and container types a Blueprint may contain.
type ViewKind string

const (
	// Spatial2DView displays logged images on a 2D canvas.
	Spatial2DView ViewKind = "spatial2d"

	// TextLogView displays logged text entries as a scrolling log.
	TextLogView ViewKind = "textlog"

	// HorizontalContainer and VerticalContainer arrange their
	// contents side by side and top to bottom respectively.
	HorizontalContainer ViewKind = "horizontal"
	VerticalContainer   ViewKind = "vertical"
)

// PanelState is the initial visibility of one of the viewer's fixed
// panels.
type PanelState string

const (
	Collapsed PanelState = "collapsed"
	Expanded  PanelState = "expanded"
)

// View is one node of a layout tree: either a leaf view displaying
// entries logged under Origin, or a container of further views.
type View struct {
	Kind ViewKind `cbor:"kind" json:"kind"`
	Name string   `cbor:"name,omitempty" json:"name,omitempty"`

	// Origin is the entity path a leaf view displays. Empty for
	// containers.
	Origin string `cbor:"origin,omitempty" json:"origin,omitempty"`

	Contents []View `cbor:"contents,omitempty" json:"contents,omitempty"`
}

// Tab is a named top-level page of a layout.
type Tab struct {
	Name string `cbor:"name" json:"name"`
	Root View   `cbor:"root" json:"root"`
}

// Blueprint is a declarative description of how a viewer should
// arrange the logged entries. A viewer has no incremental layout API:
// every blueprint sent replaces the previous one wholesale, so senders
// rebuild the full tab list each time it changes.
type Blueprint struct {
	Tabs []Tab `cbor:"tabs" json:"tabs"`

	BlueprintPanel PanelState `cbor:"blueprintPanel" json:"blueprintPanel"`
	SelectionPanel PanelState `cbor:"selectionPanel" json:"selectionPanel"`
	TimePanel      PanelState `cbor:"timePanel" json:"timePanel"`
}

// NewBlueprint wraps tabs in the standard chrome: both side panels
// collapsed and the time panel expanded for scrubbing through frames.
func NewBlueprint(tabs []Tab) *Blueprint {
	return &Blueprint{
		Tabs:           tabs,
		BlueprintPanel: Collapsed,
		SelectionPanel: Collapsed,
		TimePanel:      Expanded,
	}
}

// Horizontal arranges views side by side.
func Horizontal(contents ...View) View {
	return View{Kind: HorizontalContainer, Contents: contents}
}

// Vertical arranges views top to bottom.
func Vertical(contents ...View) View {
	return View{Kind: VerticalContainer, Contents: contents}
}

// Spatial2D is a leaf view displaying images logged under origin.
func Spatial2D(name, origin string) View {
	return View{Kind: Spatial2DView, Name: name, Origin: origin}
}

// TextLogPane is a leaf view displaying text entries logged under
// origin.
func TextLogPane(name, origin string) View {
	return View{Kind: TextLogView, Name: name, Origin: origin}
}

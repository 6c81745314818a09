// Package engine owns the interaction state of one rendering surface.
//
// An [Engine] holds the loaded graph model, its visibility state and the
// highlight overlay as one unit. Surfaces never touch those pieces directly:
// they send [Event] values to [Engine.Dispatch] and read back a [View], the
// projected frame plus the checkbox tree.
//
// # Transitions
//
//	type_toggle     visibility.SetType; clears the highlight
//	node_toggle     visibility.SetNode; clears the highlight
//	show_all        visibility.ShowAll; clears the highlight
//	reset_view      same as show_all
//	hide_all        visibility.HideAll; clears the highlight
//	connected_only  visibility.ShowOnlyConnected; clears the highlight
//	click           highlight.Toggle on the clicked node or edge
//	double_click    highlight.Clear
//
// Every accepted event re-projects the frame before Dispatch returns.
// A rejected event leaves all state untouched.
//
// # Submissions
//
// [Engine.Submit] sends text to the configured extractor. One submission
// may be in flight at a time; a second one fails with REQUEST_PENDING. On
// success the model, visibility and highlight are replaced together under
// the engine lock, so no reader sees a new model with stale visibility. On
// failure the previous state stays and the error is kept for
// [Engine.Status].
package engine

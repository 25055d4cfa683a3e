// Package viz provides terminal-based visualization for training runs.
//
// The package implements a live loss monitor using the Bubble Tea framework:
//
//   - [Model]: live view of boundary and residual losses while training runs
//   - [Live]: observer adapter that forwards epoch updates to the TUI
//   - [LossPlot], [ProfilePlot]: static ASCII charts for non-interactive runs
//
// # Key Bindings
//
//	Space - Pause/resume the chart (training keeps running)
//	L     - Toggle log scale
//	Q     - Quit the viewer
package viz

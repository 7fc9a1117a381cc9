/*
Package tui implements the terminal user interface for readmectl.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: wraps a controller.Controller plus the widgets
  - Update: processes messages and returns commands
  - View: renders the current state to the terminal

# Key Components

  - model.go: Model struct, messages, Update and View
  - init.go: construction and Run
  - keys.go: keyboard input handling and keybind routing
  - actions.go: commands and side effects (requests, copy, download)
  - render.go: panels (profile, configuration, preview) and status bar

# Threading Model

Update is the only code that touches the controller. A profile fetch or a
generation is submitted inside Update; the returned task runs as a tea.Cmd
goroutine and its result comes back as a message that Update applies. Two
overlapping requests therefore resolve in completion order.

The "Copied." acknowledgment clears itself through tea.Tick. The tick
carries the status token, so a newer status is never cleared by an older
timer, and a program that has quit simply drops the tick.

# Modes

  - ModeNormal: panels focused; keys come from the normal context, or the
    preview context when the preview panel is focused
  - ModeUsername: typing a username
  - ModeEditor: the preview is an editable textarea; every keystroke is
    written back to the document
  - ModeHelp: keybinding reference
*/
package tui

/*
Package controller is the request orchestrator behind the TUI, the CLI and
the preview server.

# State Machines

ProfileFetch and Generate are independent Machine values:

	Idle --submit--> Loading --ok--> Succeeded(T)
	                         --err-> Failed(message)

A submit with a blank username skips Loading and fails with
"invalid username" without touching the network.

# Threading Model

Submit* mutate state and return a task closure; the closure does the network
call and nothing else. Apply* fold the result back in. Callers run tasks
wherever they like (Bubble Tea runs them as tea.Cmd goroutines) and call
Apply* from the owning goroutine, so results land in completion order and
the last one to complete wins. Nothing is cancelled.
*/
package controller

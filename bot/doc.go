// Package bot routes inbound chat events to the quorum, selected-model and
// battle flows and delivers the answers back through the transport.
//
// Routing, in priority order:
//
//	start_battle...         start a battle session
//	stop_battle...          end it, summarize and post the scoreboard
//	q2(name,name) question  ask the named backends, no synthesis
//	q1 question             ask the quorum and synthesize one answer
//
// Anything else is archived to the chat history only.
package bot

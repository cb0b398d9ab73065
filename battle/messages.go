package battle

import "fmt"

const startTemplate = `🎮 Battle Mode Started!

Welcome to the %[1]s Battle Arena! Here's how it works:

**Objective:**
Critique %[1]s project, propose better solutions with clear justification, and compete for the highest score!

**Rules:**
- Each participant should provide constructive criticism of %[1]s
- Propose better solutions with clear reasoning and justification
- Multiple AI models will analyze and evaluate your arguments
- Each participant will receive a score from 0 to 1000 based on:
  - Quality and depth of critique
  - Clarity and validity of proposed solutions
  - Strength of arguments and justification
  - Overall contribution to the discussion

**How to participate:**
- Use ` + "`q1 {your critique or proposal}`" + ` to submit your arguments
- Be specific, constructive, and provide clear justifications
- The battle continues until someone calls ` + "`stop_battle`" + `
- At the end, scores will be announced and a winner declared

Let the battle begin! ⚔️`

// StopMessage opens the final battle message.
const StopMessage = `🏁 Battle Mode Ended!

The battle has concluded. Thanks to all participants!

All responses and insights from this battle session have been recorded.`

// SummaryPending is shown while the summary is generated.
const SummaryPending = "📊 Generating battle summary..."

const (
	alreadyActive = "Battle is already active. Stop the current battle first with `stop_battle` command."
	notActive     = "No active battle found. Start a battle first with `start_battle` command."
)

// StartMessage is the announcement posted when a battle starts.
func StartMessage(project string) string {
	return fmt.Sprintf(startTemplate, project)
}

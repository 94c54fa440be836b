package tutor

import "fmt"

// CorrectClip is the feedback clip played after a correct answer.
const CorrectClip = "sha_bas"

const correctPrompt = "शाबास"

func introPrompt(it *Item) string {
	return fmt.Sprintf("यो %s हो।", it.TargetName)
}

func questionPrompt(target string) string {
	return fmt.Sprintf("%s कहाँ छ?", target)
}

func wrongPrompt(selected *Item, target string) string {
	return fmt.Sprintf("होइन, त्यो %s हो। %s कहाँ छ?", selected.TargetName, target)
}

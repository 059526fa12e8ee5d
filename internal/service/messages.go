package service

import (
	"fmt"
	"strings"
)

const (
	replyNotRegistered = "You're not registered. Send 'register' followed by your emergency contact's number to start goal tracking."
	replyBadContact    = "That emergency contact number doesn't look right. Send 'register' followed by the number, for example: register +15551234567"
	replyNoPriorGoals  = "Sorry, I couldn't find any goals from yesterday to update. Reply with today's goals separated by commas."
	replyFallback      = "Thanks for your message! Reply with today's goals separated by commas, or yes/no for each of yesterday's goals."
	replyNoGoalsToday  = "You haven't shared any goals today. Reply with a comma-separated list to set them."
)

func welcomeMessage() string {
	return "You've been registered for SMS Goal Tracker! We'll start tracking your goals tomorrow. Reply STOP to opt-out at any time."
}

func goalsSetMessage(goals []string) string {
	var b strings.Builder
	b.WriteString("Got it! Today's goals:")
	for i, goal := range goals {
		fmt.Fprintf(&b, "\n%d. %s", i+1, goal)
	}
	b.WriteString("\nI'll check in with you tomorrow.")
	return b.String()
}

func completionMessage(completed, total int) string {
	if completed == total {
		return fmt.Sprintf("Amazing! You completed all %d of yesterday's goals. Keep it up!", total)
	}
	return fmt.Sprintf("Thanks for the update! You completed %d of %d goals yesterday. Keep up the good work!", completed, total)
}

func mismatchMessage(answers, goals int) string {
	return fmt.Sprintf("Thanks! I got %d answers for yesterday's %d goals, so I updated the first %d and left the rest as they were. Reply yes or no for each goal, separated by commas.",
		answers, goals, min(answers, goals))
}

func escalationMessage(phoneNumber string, days int) string {
	return fmt.Sprintf("Please check on %s. They haven't responded to their goal tracker in %d days.", phoneNumber, days)
}

// dailyPromptMessage asks for today's goals. yesterday is numbered so a
// positional yes/no reply lines up with it; carried goals from older days are
// listed separately and never take part in that alignment.
func dailyPromptMessage(yesterday, carried []string) string {
	var b strings.Builder
	b.WriteString("What are your goals for today? Reply with a comma-separated list.")
	if len(yesterday) > 0 {
		b.WriteString("\n\nDid you accomplish yesterday's goals?")
		for i, goal := range yesterday {
			fmt.Fprintf(&b, "\n%d. %s", i+1, goal)
		}
		b.WriteString("\nReply yes or no for each, separated by commas.")
	}
	if len(carried) > 0 {
		b.WriteString("\n\nStill pending from earlier days: ")
		b.WriteString(strings.Join(carried, ", "))
	}
	b.WriteString("\nReply STOP to opt-out.")
	return b.String()
}

func eveningFollowupMessage(incomplete []string) string {
	return fmt.Sprintf("Evening check-in! Still open today: %s. Tomorrow morning, reply yes or no for each of today's goals.",
		strings.Join(incomplete, ", "))
}

// truncateReply shortens s to at most limit runes, ending on a word boundary
// when one is close enough.
func truncateReply(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit-1])
	if i := strings.LastIndexAny(cut, " \n"); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}

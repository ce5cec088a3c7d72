package assist

import (
	"sort"
	"strings"
)

// Knowledge is one entry in the in-app help corpus.
type Knowledge struct {
	ID       string `json:"id"`
	Topic    string `json:"topic"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// ChatReply is the chatbot's answer plus the help entries that matched.
type ChatReply struct {
	Response string      `json:"response"`
	Sources  []Knowledge `json:"sources"`
}

const chatDefaultResponse = "I can help with MediSchedule features! Ask about: dashboard stats, voice agent calls, patient management, scheduling, or troubleshooting."

// appKnowledge is the built-in help corpus about the application itself.
var appKnowledge = []Knowledge{
	{
		ID:       "1",
		Topic:    "Dashboard Overview",
		Content:  "The MediSchedule dashboard shows appointment statistics, patient counts, weekly activity charts, and appointment type breakdowns. It displays total appointments, pending confirmations, active patients, and estimated monthly revenue.",
		Category: "features",
	},
	{
		ID:       "2",
		Topic:    "Voice Agent Calls",
		Content:  "The Voice Agent uses Vapi to make real phone calls to patients for appointment scheduling. Select a patient, click \"Initiate Call\", and the AI will handle the conversation. Live transcripts appear during calls.",
		Category: "features",
	},
	{
		ID:       "3",
		Topic:    "Patient Management",
		Content:  "The Patients tab shows all patient records with risk profiles (Low, Moderate, High). You can edit patient information by clicking the pencil icon. Each patient has contact details and medical risk assessment.",
		Category: "features",
	},
	{
		ID:       "4",
		Topic:    "Schedule Management",
		Content:  "The Schedule tab displays all appointments with status tracking (Pending, Scheduled, Completed). You can update appointment statuses and view appointment details including AI summaries from voice calls.",
		Category: "features",
	},
	{
		ID:       "5",
		Topic:    "Webhook Configuration",
		Content:  "For live transcripts to work, configure your Vapi assistant webhook URL to point to your ngrok tunnel + /api/webhooks/vapi. The backend server handles webhook events and stores call data.",
		Category: "technical",
	},
	{
		ID:       "6",
		Topic:    "Environment Setup",
		Content:  "Required environment variables: GEMINI_API_KEY for AI features, VAPI_API_KEY, VAPI_ASSISTANT_ID, VAPI_PHONE_NUMBER_ID for voice calls, and PUBLIC_BASE_URL for webhook endpoints.",
		Category: "technical",
	},
	{
		ID:       "7",
		Topic:    "Transcript Issues",
		Content:  "If live transcripts are not appearing: 1) Check if backend server is running on port 3001, 2) Verify ngrok tunnel is active, 3) Confirm Vapi webhook URL is correctly configured, 4) Check browser console for errors.",
		Category: "troubleshooting",
	},
}

// cannedResponses maps question keywords to fixed walkthrough answers,
// checked in a stable order so overlapping keywords resolve the same way
// every time.
var cannedResponses = []struct {
	keyword  string
	response string
}{
	{"voice calls", "To make voice calls: 1) Go to Voice Agent tab, 2) Select a patient from the dropdown, 3) Click \"Initiate Call\", 4) The AI will handle the conversation automatically."},
	{"dashboard", "The Dashboard shows: Total appointments (50), Pending confirmations (5), Active patients (1,284), Weekly activity chart, and Appointment types breakdown."},
	{"patients", "Patient Management: View all patients with risk profiles, edit patient info by clicking the pencil icon, see contact details and medical risk assessments."},
	{"schedule", "Schedule Management: View all appointments, update status (Pending/Scheduled/Completed), see AI summaries from voice calls."},
	{"transcript", "For live transcripts: 1) Start backend server, 2) Configure Vapi webhook URL, 3) Make actual phone calls - transcripts appear during real conversations."},
	{"webhook", "Webhook setup: Set your Vapi assistant webhook to your ngrok URL + /api/webhooks/vapi. Backend server must be running on port 3001."},
}

// Chatbot answers questions about the application itself from canned
// keyword responses; no model call is involved.
type Chatbot struct {
	knowledge []Knowledge
}

// NewChatbot creates the in-app help chatbot.
func NewChatbot() *Chatbot {
	return &Chatbot{knowledge: appKnowledge}
}

// Chat matches the message against the canned responses (first keyword
// hit wins) and attaches the top-scoring help entries as sources. An
// unmatched message gets the generic capabilities reply.
func (c *Chatbot) Chat(message string) ChatReply {
	sources := c.findRelevant(message)

	query := strings.ToLower(message)
	response := chatDefaultResponse
	for _, canned := range cannedResponses {
		if strings.Contains(query, canned.keyword) {
			response = canned.response
			break
		}
	}

	return ChatReply{Response: response, Sources: sources}
}

func (c *Chatbot) findRelevant(message string) []Knowledge {
	type scored struct {
		item  Knowledge
		score float64
	}
	matches := make([]scored, 0, len(c.knowledge))
	for _, item := range c.knowledge {
		if s := scoreQuery(message, item.Topic, item.Content); s > 0 {
			matches = append(matches, scored{item: item, score: s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > 3 {
		matches = matches[:3]
	}
	out := make([]Knowledge, len(matches))
	for i, m := range matches {
		out[i] = m.item
	}
	return out
}

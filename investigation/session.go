package investigation

// Node types of an investigation graph.
const (
	TypeSection    = "SECTION"
	TypeQuestion   = "QUESTION"
	TypeLead       = "LEAD"
	TypeHypothesis = "HYPOTHESIS"
	TypeTask       = "TASK"
)

// Session is the investigation data returned by the backend.
type Session struct {
	Questions  []Question   `json:"questions"`
	Leads      []Lead       `json:"leads"`
	Hypotheses []Hypothesis `json:"hypotheses"`
	Tasks      []Task       `json:"tasks"`
}

type Question struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

type Lead struct {
	ID         string `json:"id"`
	Lead       string `json:"lead"`
	QuestionID string `json:"question_id,omitempty"`
}

type Hypothesis struct {
	ID         string `json:"id"`
	Hypothesis string `json:"hypothesis"`
	LeadID     string `json:"lead_id,omitempty"`
	QuestionID string `json:"question_id,omitempty"`
}

type Task struct {
	ID           string `json:"id"`
	Task         string `json:"task"`
	HypothesisID string `json:"hypothesis_id,omitempty"`
}

// FromSession builds the investigation graph. A hypothesis hangs off its lead
// when it has one, otherwise off its question. Items whose parent is not part
// of the session become roots.
func FromSession(s Session) *Graph {
	g := NewGraph()
	for _, q := range s.Questions {
		g.AddNode(q.ID, map[string]any{"type": TypeQuestion, "label": q.Question})
	}
	for _, l := range s.Leads {
		g.AddNode(l.ID, map[string]any{"type": TypeLead, "label": l.Lead})
	}
	for _, h := range s.Hypotheses {
		g.AddNode(h.ID, map[string]any{"type": TypeHypothesis, "label": h.Hypothesis})
	}
	for _, t := range s.Tasks {
		g.AddNode(t.ID, map[string]any{"type": TypeTask, "label": t.Task})
	}

	link := func(parent, child string) {
		if parent != "" && g.Node(parent) != nil {
			g.AddEdge(parent, child)
		}
	}
	for _, l := range s.Leads {
		link(l.QuestionID, l.ID)
	}
	for _, h := range s.Hypotheses {
		if h.LeadID != "" && g.Node(h.LeadID) != nil {
			link(h.LeadID, h.ID)
			continue
		}
		link(h.QuestionID, h.ID)
	}
	for _, t := range s.Tasks {
		link(t.HypothesisID, t.ID)
	}
	return g
}

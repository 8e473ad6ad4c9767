package conversation

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGreeting          = "Bonjour ! Je suis Soraya, votre assistante IA multilingue de l'Hôtel El Norcy. Comment puis-je vous aider aujourd'hui ?"
	DefaultSystemInstruction = "You are Soraya, a helpful multilingual AI assistant for Hotel El Norcy. Answer questions about hotel services, amenities, and general hospitality inquiries in the language the user speaks. Be concise and helpful."
)

// QuickReply is a canned question offered as a button
type QuickReply struct {
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	Question string `json:"question" yaml:"question"`
}

// Persona holds the fixed texts that shape a conversation and its page
type Persona struct {
	Name              string       `json:"name" yaml:"name"`
	Title             string       `json:"title" yaml:"title"`
	Subtitle          string       `json:"subtitle" yaml:"subtitle"`
	Greeting          string       `json:"greeting" yaml:"greeting"`
	SystemInstruction string       `json:"system_instruction" yaml:"system_instruction"`
	QuickReplies      []QuickReply `json:"quick_replies" yaml:"quick_replies"`
	Footer            string       `json:"footer" yaml:"footer"`
	Disclaimer        string       `json:"disclaimer" yaml:"disclaimer"`
}

// DefaultPersona returns Soraya, the El Norcy hotel assistant
func DefaultPersona() *Persona {
	return &Persona{
		Name:              "Soraya",
		Title:             "Welcome to Hotel El Norcy",
		Subtitle:          "I am Soraya, your multilingual AI assistant!",
		Greeting:          DefaultGreeting,
		SystemInstruction: DefaultSystemInstruction,
		QuickReplies: []QuickReply{
			{ID: "wifi", Label: "Free Wifi?", Question: "Do you have free Wi-Fi?"},
			{ID: "breakfast", Label: "Breakfast time?", Question: "What time is breakfast?"},
			{ID: "pool", Label: "Pool available?", Question: "Is the pool available?"},
		},
		Footer:     "AI agent powered by OpenAI | Created by Stanley Norcius, CEO of Noraxis",
		Disclaimer: "Note: This assistant is a demo project and may not have access to real-time hotel information.",
	}
}

// LoadPersona reads a YAML persona file. Fields left empty keep their default values
func LoadPersona(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read persona %s", path)
	}

	var override Persona
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, errors.Wrapf(err, "failed to parse persona %s", path)
	}

	persona := DefaultPersona().merge(&override)
	if err := persona.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid persona %s", path)
	}

	return persona, nil
}

// QuickReply finds a quick reply by its id
func (p *Persona) QuickReply(id string) (QuickReply, bool) {
	for _, reply := range p.QuickReplies {
		if reply.ID == id {
			return reply, true
		}
	}
	return QuickReply{}, false
}

// Validate checks the persona can seed and drive a conversation
func (p *Persona) Validate() error {
	if strings.TrimSpace(p.Greeting) == "" {
		return errors.New("greeting is required")
	}
	if strings.TrimSpace(p.SystemInstruction) == "" {
		return errors.New("system instruction is required")
	}

	seen := make(map[string]bool, len(p.QuickReplies))
	for i, reply := range p.QuickReplies {
		if reply.ID == "" || strings.TrimSpace(reply.Question) == "" {
			return errors.Errorf("quick reply %d needs an id and a question", i)
		}
		if seen[reply.ID] {
			return errors.Errorf("duplicate quick reply id %q", reply.ID)
		}
		seen[reply.ID] = true
	}

	return nil
}

func (p *Persona) merge(o *Persona) *Persona {
	pick := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}

	pick(&p.Name, o.Name)
	pick(&p.Title, o.Title)
	pick(&p.Subtitle, o.Subtitle)
	pick(&p.Greeting, o.Greeting)
	pick(&p.SystemInstruction, o.SystemInstruction)
	pick(&p.Footer, o.Footer)
	pick(&p.Disclaimer, o.Disclaimer)

	if len(o.QuickReplies) > 0 {
		p.QuickReplies = o.QuickReplies
	}

	return p
}

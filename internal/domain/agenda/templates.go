package agenda

// TemplateSection is a suggested section with a share of the meeting time.
type TemplateSection struct {
	Type    string
	Title   string
	TimePct float64
}

// Template guides agenda construction for a detected meeting intent.
type Template struct {
	Intent   string
	Focus    string
	Sections []TemplateSection
}

// TemplateFor returns the section template for an intent, localized to
// pt-BR or en-US. Unknown intents fall back to the alignment template.
func TemplateFor(intent, language string) Template {
	pt := language == "pt-BR"
	switch intent {
	case "decision_making":
		if pt {
			return Template{Intent: intent, Focus: "decisions", Sections: []TemplateSection{
				{"opening", "Abertura", 0.10},
				{"context", "Contexto", 0.15},
				{"decisions", "Decisões Necessárias", 0.40},
				{"impacts", "Impactos e Próximos Passos", 0.25},
				{"next_steps", "Próximos Passos", 0.10},
			}}
		}
		return Template{Intent: intent, Focus: "decisions", Sections: []TemplateSection{
			{"opening", "Opening", 0.10},
			{"context", "Context", 0.15},
			{"decisions", "Decisions Needed", 0.40},
			{"impacts", "Impacts & Next Steps", 0.25},
			{"next_steps", "Action Items", 0.10},
		}}
	case "problem_solving":
		if pt {
			return Template{Intent: intent, Focus: "problems", Sections: []TemplateSection{
				{"opening", "Abertura", 0.08},
				{"problems", "Problemas e Bloqueios", 0.35},
				{"solutions", "Soluções Propostas", 0.30},
				{"actions", "Ações e Responsáveis", 0.20},
				{"next_steps", "Próximos Passos", 0.07},
			}}
		}
		return Template{Intent: intent, Focus: "problems", Sections: []TemplateSection{
			{"opening", "Opening", 0.08},
			{"problems", "Problems & Blockers", 0.35},
			{"solutions", "Proposed Solutions", 0.30},
			{"actions", "Actions & Owners", 0.20},
			{"next_steps", "Next Steps", 0.07},
		}}
	case "planning":
		if pt {
			return Template{Intent: intent, Focus: "planning", Sections: []TemplateSection{
				{"opening", "Abertura", 0.10},
				{"objectives", "Objetivos e Marcos", 0.25},
				{"roadmap", "Roadmap e Cronograma", 0.30},
				{"resources", "Recursos e Dependências", 0.20},
				{"next_steps", "Próximos Passos", 0.15},
			}}
		}
		return Template{Intent: intent, Focus: "planning", Sections: []TemplateSection{
			{"opening", "Opening", 0.10},
			{"objectives", "Objectives & Milestones", 0.25},
			{"roadmap", "Roadmap & Timeline", 0.30},
			{"resources", "Resources & Dependencies", 0.20},
			{"next_steps", "Next Steps", 0.15},
		}}
	case "status_update":
		if pt {
			return Template{Intent: intent, Focus: "status", Sections: []TemplateSection{
				{"opening", "Abertura", 0.08},
				{"milestones", "Marcos Atingidos", 0.20},
				{"metrics", "Métricas e Progresso", 0.25},
				{"blockers", "Bloqueios e Riscos", 0.25},
				{"next_period", "Próximo Período", 0.15},
				{"next_steps", "Ações", 0.07},
			}}
		}
		return Template{Intent: intent, Focus: "status", Sections: []TemplateSection{
			{"opening", "Opening", 0.08},
			{"milestones", "Milestones Reached", 0.20},
			{"metrics", "Metrics & Progress", 0.25},
			{"blockers", "Blockers & Risks", 0.25},
			{"next_period", "Next Period", 0.15},
			{"next_steps", "Actions", 0.07},
		}}
	case "kickoff":
		if pt {
			return Template{Intent: intent, Focus: "kickoff", Sections: []TemplateSection{
				{"opening", "Apresentações", 0.15},
				{"objectives", "Objetivos do Projeto", 0.20},
				{"scope", "Escopo e Entregas", 0.25},
				{"roles", "Papéis e Responsabilidades", 0.15},
				{"timeline", "Cronograma Inicial", 0.15},
				{"next_steps", "Primeiros Passos", 0.10},
			}}
		}
		return Template{Intent: intent, Focus: "kickoff", Sections: []TemplateSection{
			{"opening", "Introductions", 0.15},
			{"objectives", "Project Objectives", 0.20},
			{"scope", "Scope & Deliverables", 0.25},
			{"roles", "Roles & Responsibilities", 0.15},
			{"timeline", "Initial Timeline", 0.15},
			{"next_steps", "First Steps", 0.10},
		}}
	default: // alignment
		if pt {
			return Template{Intent: "alignment", Focus: "alignment", Sections: []TemplateSection{
				{"opening", "Abertura", 0.10},
				{"status", "Status Atual", 0.25},
				{"questions", "Dúvidas e Alinhamentos", 0.35},
				{"decisions", "Decisões Menores", 0.20},
				{"next_steps", "Próximos Passos", 0.10},
			}}
		}
		return Template{Intent: "alignment", Focus: "alignment", Sections: []TemplateSection{
			{"opening", "Opening", 0.10},
			{"status", "Current Status", 0.25},
			{"questions", "Questions & Alignment", 0.35},
			{"decisions", "Minor Decisions", 0.20},
			{"next_steps", "Next Steps", 0.10},
		}}
	}
}

package rubric

// Rubric is the ordered set of weighted sections an evaluation is scored against.
type Rubric struct {
	Sections []Section `json:"sections" yaml:"sections" validate:"required,min=1,dive"`
}

// Section groups questions under a single weight. Weights across a rubric sum to 100.
type Section struct {
	ID        string     `json:"id" yaml:"id" validate:"required"`
	Title     string     `json:"title" yaml:"title" validate:"required"`
	Weight    float64    `json:"weight" yaml:"weight" validate:"gt=0,lte=100"`
	Questions []Question `json:"questions" yaml:"questions" validate:"required,min=1,dive"`
}

// Question is a single yes/no/not-applicable item.
type Question struct {
	ID   string `json:"id" yaml:"id" validate:"required"`
	Text string `json:"text" yaml:"text" validate:"required"`
}

// SectionQuestion pairs a question with the section that owns it.
type SectionQuestion struct {
	Section  Section
	Question Question
}

// Questions returns every question in rubric order.
func (r Rubric) Questions() (questions []SectionQuestion) {
	questions = make([]SectionQuestion, 0)
	for _, section := range r.Sections {
		for _, q := range section.Questions {
			questions = append(questions, SectionQuestion{Section: section, Question: q})
		}
	}
	return questions
}

// TotalWeight is the sum of section weights.
func (r Rubric) TotalWeight() (total float64) {
	for _, s := range r.Sections {
		total += s.Weight
	}
	return total
}

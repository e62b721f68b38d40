package skills

// technicalTerms is the reference vocabulary for must-have skills.
// Order matters: only the first patternTermLimit entries are searched inside requirement phrases.
var technicalTerms = []string{
	"python", "java", "javascript", "react", "angular", "vue", "node.js", "express",
	"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch",
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "git", "github",
	"html", "css", "bootstrap", "tailwind", "sass", "less",
	"django", "flask", "spring", "laravel", "rails", "asp.net",
	"machine learning", "deep learning", "ai", "data science", "pandas", "numpy",
	"tensorflow", "pytorch", "scikit-learn", "opencv", "nlp",
	"agile", "scrum", "devops", "ci/cd", "microservices", "api", "rest", "graphql",
}

// softTerms is the reference vocabulary for good-to-have skills
var softTerms = []string{
	"communication", "leadership", "teamwork", "problem solving", "analytical",
	"creative", "adaptable", "organized", "detail-oriented", "time management",
}

const patternTermLimit = 10

var (
	defaultMustHave   = []string{"python", "java", "javascript"}
	defaultGoodToHave = []string{"communication", "teamwork"}
)

// TechnicalTerms returns a copy of the technical vocabulary.
func TechnicalTerms() []string {
	return append([]string(nil), technicalTerms...)
}

// SoftTerms returns a copy of the soft-skill vocabulary.
func SoftTerms() []string {
	return append([]string(nil), softTerms...)
}

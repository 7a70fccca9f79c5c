// Package curriculum holds the static Journey map: an ordered list of
// worlds, each with ordered levels and one terminal boss. The data is
// compiled in and read-only; user position lives in models.UserJourney.
package curriculum

import "codequest-server/internal/models"

// Level is a single curriculum unit. Boss levels reuse the same shape with
// an extra description and a fixed hard difficulty.
type Level struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Topic       string `json:"topic"`
	Description string `json:"description,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
}

// World is one act of the journey, themed after a seniority role.
type World struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Role        string  `json:"role"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
	Levels      []Level `json:"levels"`
	Boss        Level   `json:"boss"`
}

var worlds = []World{
	{
		ID:          "world_1",
		Title:       "World 1: Valley of Fundamentals",
		Role:        "Junior",
		Description: "Survival and construction. The goal is to make things work.",
		Color:       "from-green-600 to-emerald-900",
		Levels: []Level{
			{ID: "w1_l1", Title: "The Awakening", Topic: "Computing basics: CPU, memory, binary, compiled vs interpreted"},
			{ID: "w1_l2", Title: "The Terminal", Topic: "Linux & OS: bash, permissions, processes, filesystem"},
			{ID: "w1_l3", Title: "The Forge", Topic: "Programming logic: variables, loops, conditionals, functions"},
			{ID: "w1_l4", Title: "Temple of Objects", Topic: "OOP: classes, inheritance, polymorphism, encapsulation"},
			{ID: "w1_l5", Title: "The Scrolls", Topic: "SQL & data: tables, select, join, ACID"},
			{ID: "w1_l6", Title: "The Timeline", Topic: "Git: commits, branches, merge, pull requests"},
			{ID: "w1_l7", Title: "The Web", Topic: "Web & HTTP: DNS, request/response, status codes"},
			{ID: "w1_l8", Title: "The Portal", Topic: "REST APIs: JSON, HTTP verbs, endpoints"},
			{ID: "w1_l9", Title: "The Magic Box", Topic: "Docker: containers, images, volumes, Dockerfile"},
		},
		Boss: Level{
			ID:          "boss_1",
			Title:       "BOSS: The Stone Monolith",
			Description: "The boss attacks with deploy errors and merge conflicts. Defend yourself!",
			Topic:       "Junior systems integration: debugging, simple deploys, git conflicts",
			Difficulty:  "hard",
		},
	},
	{
		ID:          "world_2",
		Title:       "World 2: Citadel of Quality",
		Role:        "Mid-level",
		Description: "Order and efficiency. The goal is clean, scalable code.",
		Color:       "from-blue-600 to-indigo-900",
		Levels: []Level{
			{ID: "w2_l1", Title: "The Hidden Library", Topic: "NoSQL & caching: MongoDB, Redis, CAP theorem"},
			{ID: "w2_l2", Title: "The Zen Garden", Topic: "Clean code: meaningful names, small functions, error handling"},
			{ID: "w2_l3", Title: "The Five Pillars", Topic: "SOLID principles: SRP, OCP, LSP, ISP, DIP"},
			{ID: "w2_l4", Title: "The Watchtower", Topic: "Testing & QA: unit, integration, TDD, mocking"},
			{ID: "w2_l5", Title: "The Arsenal", Topic: "Design patterns: factory, singleton, strategy, observer"},
			{ID: "w2_l6", Title: "The Workshop", Topic: "Refactoring legacy code: safe techniques"},
			{ID: "w2_l7", Title: "The Wind Tunnel", Topic: "Backend performance: DB indexing, N+1 problem, async"},
			{ID: "w2_l8", Title: "The Clouds", Topic: "Cloud & CI/CD: AWS basics, pipelines, GitHub Actions"},
		},
		Boss: Level{
			ID:          "boss_2",
			Title:       "BOSS: The Legacy Spaghetti",
			Description: "A monster made of bad code. Use design patterns to win.",
			Topic:       "Mid-level architecture: code smells, refactoring, design patterns in real scenarios",
			Difficulty:  "hard",
		},
	},
	{
		ID:          "world_3",
		Title:       "World 3: Nexus of Architecture",
		Role:        "Architect",
		Description: "Strategy and the big picture. The goal is to design complex systems.",
		Color:       "from-purple-600 to-fuchsia-900",
		Levels: []Level{
			{ID: "w3_l1", Title: "The Star Map", Topic: "Architecture fundamentals: non-functional requirements, trade-offs"},
			{ID: "w3_l2", Title: "The Domain", Topic: "DDD: bounded contexts, entities, aggregates, value objects"},
			{ID: "w3_l3", Title: "The Layers", Topic: "Clean & hexagonal architecture: ports & adapters"},
			{ID: "w3_l4", Title: "The Metropolis", Topic: "Modular vs distributed monolith: module organization"},
			{ID: "w3_l5", Title: "The Star Fleet", Topic: "Microservices: decomposition, gRPC/REST communication, saga pattern"},
			{ID: "w3_l6", Title: "The Power Grid", Topic: "Event-driven: Kafka, RabbitMQ, eventual consistency"},
			{ID: "w3_l7", Title: "The Dark Matter", Topic: "Serverless & cloud native: FaaS, autoscaling, observability"},
		},
		Boss: Level{
			ID:          "boss_3",
			Title:       "BOSS: The Chaos of Scale",
			Description: "A Black Friday simulation. The system is going down. Save it!",
			Topic:       "Advanced system design: scalability, reliability, circuit breakers, sharding",
			Difficulty:  "hard",
		},
	},
}

var levelIndex map[string]lookupEntry

type lookupEntry struct {
	level  *Level
	world  *World
	isBoss bool
}

func init() {
	levelIndex = make(map[string]lookupEntry)
	for wi := range worlds {
		w := &worlds[wi]
		for li := range w.Levels {
			levelIndex[w.Levels[li].ID] = lookupEntry{level: &w.Levels[li], world: w}
		}
		levelIndex[w.Boss.ID] = lookupEntry{level: &w.Boss, world: w, isBoss: true}
	}
}

// Worlds returns the full static journey map.
func Worlds() []World {
	return worlds
}

// LevelByID resolves a level or boss id anywhere in the curriculum and
// returns the unit, its owning world and whether it is a boss.
func LevelByID(id string) (*Level, *World, bool, error) {
	entry, ok := levelIndex[id]
	if !ok {
		return nil, nil, false, models.ErrLevelNotFound
	}
	return entry.level, entry.world, entry.isBoss, nil
}

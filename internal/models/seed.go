package models

// SeedExercises is the built-in exercise library, loaded into the store on
// first run. Users extend it with custom exercises from the picker.
var SeedExercises = []Exercise{
	{ID: "bench-press", Name: "Supino Reto", Category: "Peito"},
	{ID: "incline-press", Name: "Supino Inclinado", Category: "Peito"},
	{ID: "chest-fly", Name: "Crucifixo", Category: "Peito"},
	{ID: "squat", Name: "Agachamento Livre", Category: "Pernas"},
	{ID: "leg-press", Name: "Leg Press", Category: "Pernas"},
	{ID: "leg-curl", Name: "Mesa Flexora", Category: "Pernas"},
	{ID: "deadlift", Name: "Levantamento Terra", Category: "Costas"},
	{ID: "barbell-row", Name: "Remada Curvada", Category: "Costas"},
	{ID: "lat-pulldown", Name: "Puxada Frontal", Category: "Costas"},
	{ID: "overhead-press", Name: "Desenvolvimento Militar", Category: "Ombros"},
	{ID: "lateral-raise", Name: "Elevação Lateral", Category: "Ombros"},
	{ID: "barbell-curl", Name: "Rosca Direta", Category: "Braços"},
	{ID: "triceps-pushdown", Name: "Tríceps Pulley", Category: "Braços"},
}

// SeedTemplates are the default workout plans.
var SeedTemplates = []WorkoutTemplate{
	{
		ID:          "push",
		Name:        "Treino A: Push",
		Description: "Peito, ombros e tríceps",
		ExerciseIDs: []string{"bench-press", "incline-press", "overhead-press", "lateral-raise", "triceps-pushdown"},
	},
	{
		ID:          "pull",
		Name:        "Treino B: Pull",
		Description: "Costas e bíceps",
		ExerciseIDs: []string{"deadlift", "barbell-row", "lat-pulldown", "barbell-curl"},
	},
	{
		ID:          "legs",
		Name:        "Treino C: Pernas",
		Description: "Quadríceps, posteriores e panturrilha",
		ExerciseIDs: []string{"squat", "leg-press", "leg-curl"},
	},
}

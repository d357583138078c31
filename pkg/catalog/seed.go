// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

package catalog

// SeedModules returns the cooker's hardware module catalog at full
// levels. Units: dispensers track grams/millilitres of consumable,
// processing and heating units track a wear/capacity percentage.
func SeedModules() []Module {
	return []Module{
		{ID: "spice-dispenser", Name: "Spice Dispenser", CurrentLevel: 100, MaxLevel: 100, Threshold: 20, Unit: "g", Status: StatusNormal, ModuleType: TypeDispenser, OperationMode: ModeBatch},
		{ID: "hopper-dispenser", Name: "Vegetable Hopper", CurrentLevel: 500, MaxLevel: 500, Threshold: 100, Unit: "g", Status: StatusNormal, ModuleType: TypeDispenser, OperationMode: ModeBatch},
		{ID: "water-dispenser", Name: "Water Dispenser", CurrentLevel: 2000, MaxLevel: 2000, Threshold: 500, Unit: "ml", Status: StatusNormal, ModuleType: TypeDispenser, OperationMode: ModeContinuous},
		{ID: "oil-dispenser", Name: "Oil Dispenser", CurrentLevel: 300, MaxLevel: 300, Threshold: 50, Unit: "ml", Status: StatusNormal, ModuleType: TypeDispenser, OperationMode: ModeBatch},
		{ID: "grinding-unit", Name: "Grinding Unit", CurrentLevel: 100, MaxLevel: 100, Threshold: 10, Unit: "%", Status: StatusNormal, ModuleType: TypeProcessor, OperationMode: ModeTimed},
		{ID: "chopping-unit", Name: "Chopping Unit", CurrentLevel: 100, MaxLevel: 100, Threshold: 10, Unit: "%", Status: StatusNormal, ModuleType: TypeProcessor, OperationMode: ModeTimed},
		{ID: "heating-element", Name: "Heating Element", CurrentLevel: 100, MaxLevel: 100, Threshold: 10, Unit: "%", Status: StatusNormal, ModuleType: TypeHeater, OperationMode: ModeContinuous},
		{ID: "boiling-water", Name: "Boiling Water Unit", CurrentLevel: 1000, MaxLevel: 1000, Threshold: 200, Unit: "ml", Status: StatusNormal, ModuleType: TypeHeater, OperationMode: ModeBatch},
		{ID: "steaming-unit", Name: "Steaming Unit", CurrentLevel: 100, MaxLevel: 100, Threshold: 15, Unit: "%", Status: StatusNormal, ModuleType: TypeHeater, OperationMode: ModeTimed},
		{ID: "cleaning-system", Name: "Cleaning System", CurrentLevel: 100, MaxLevel: 100, Threshold: 20, Unit: "%", Status: StatusNormal, ModuleType: TypeCleaner, OperationMode: ModeBatch},
	}
}

// SeedRecipes returns the built-in recipe catalog.
func SeedRecipes() []Recipe {
	return []Recipe{
		{
			ID:          "tomato-soup",
			Name:        "Tomato Soup",
			Category:    "Soups",
			Description: "A classic comfort food made with ripe tomatoes, aromatic herbs, and a hint of cream.",
			CookingTime: 15,
			Ingredients: []Ingredient{
				{ID: "tomatoes", Name: "Fresh Tomatoes", Quantity: 200, Unit: "g", ModuleID: "hopper-dispenser",
					ProcessingSteps: []ProcessingStep{{ModuleID: "chopping-unit", Operation: "chop", Duration: 30, Speed: 50}}},
				{ID: "water-tomato", Name: "Water", Quantity: 300, Unit: "ml", ModuleID: "water-dispenser"},
				{ID: "spices-tomato", Name: "Spice Mix (Cumin, Coriander, Black Pepper)", Quantity: 10, Unit: "g", ModuleID: "spice-dispenser",
					ProcessingSteps: []ProcessingStep{{ModuleID: "grinding-unit", Operation: "grind", Duration: 15, Speed: 70}}},
				{ID: "oil-tomato", Name: "Cooking Oil", Quantity: 15, Unit: "ml", ModuleID: "oil-dispenser"},
				{ID: "hot-water-tomato", Name: "Hot Water", Quantity: 150, Unit: "ml", ModuleID: "boiling-water"},
				{ID: "salt-tomato", Name: "Salt", Quantity: 5, Unit: "g", ModuleID: "spice-dispenser"},
			},
			Steps: []string{
				"Dispensing and chopping fresh tomatoes",
				"Grinding spices to optimal texture",
				"Heating oil in the cooking chamber",
				"Sautéing chopped tomatoes with oil",
				"Adding water and bringing to boil",
				"Adding hot water for perfect consistency",
				"Steam enhancement for rich flavor development",
				"Simmering with ground spices for enhanced taste",
				"Final blending for smooth consistency",
				"System cleaning and sanitization",
			},
			Rating:      4.5,
			TimesCooked: 128,
		},
		{
			ID:          "spinach-soup",
			Name:        "Spinach Soup",
			Category:    "Soups",
			Description: "A nutrient-rich soup packed with fresh spinach, light cream, and aromatic spices.",
			CookingTime: 12,
			Ingredients: []Ingredient{
				{ID: "spinach", Name: "Fresh Spinach", Quantity: 150, Unit: "g", ModuleID: "hopper-dispenser",
					ProcessingSteps: []ProcessingStep{{ModuleID: "chopping-unit", Operation: "chop", Duration: 20, Speed: 60}}},
				{ID: "water-spinach", Name: "Water", Quantity: 250, Unit: "ml", ModuleID: "water-dispenser"},
				{ID: "spices-spinach", Name: "Spice Mix (Garam Masala, Turmeric)", Quantity: 5, Unit: "g", ModuleID: "spice-dispenser",
					ProcessingSteps: []ProcessingStep{{ModuleID: "grinding-unit", Operation: "grind", Duration: 10, Speed: 60}}},
				{ID: "oil-spinach", Name: "Cooking Oil", Quantity: 10, Unit: "ml", ModuleID: "oil-dispenser"},
				{ID: "hot-water-spinach", Name: "Hot Water", Quantity: 100, Unit: "ml", ModuleID: "boiling-water"},
				{ID: "garlic-spinach", Name: "Fresh Garlic", Quantity: 15, Unit: "g", ModuleID: "hopper-dispenser",
					ProcessingSteps: []ProcessingStep{{ModuleID: "chopping-unit", Operation: "mince", Duration: 10, Speed: 70}}},
			},
			Steps: []string{
				"Dispensing fresh spinach from hopper",
				"Steaming spinach to retain nutrients",
				"Chopping steamed spinach finely",
				"Dispensing and mincing fresh garlic",
				"Grinding spices for aromatic blend",
				"Heating oil for proper tempering",
				"Sautéing garlic and spices in heated oil",
				"Adding chopped spinach to the mixture",
				"Adding water and bringing to boil",
				"Adding hot water for perfect consistency",
				"Blending all ingredients smoothly",
				"Final seasoning and taste adjustment",
				"System cleaning and sanitization",
			},
			Rating:      4.2,
			TimesCooked: 85,
		},
		{
			ID:          "tur-dal",
			Name:        "Tur Dal",
			Category:    "Lentil Recipes",
			Description: "A hearty lentil preparation with aromatic spices and a rich texture.",
			CookingTime: 20,
			Ingredients: []Ingredient{
				{ID: "turdal", Name: "Tur Dal (Pigeon Peas)", Quantity: 100, Unit: "g", ModuleID: "hopper-dispenser",
					ProcessingSteps: []ProcessingStep{{ModuleID: "grinding-unit", Operation: "coarse_grind", Duration: 10, Speed: 30}}},
				{ID: "water-turdal", Name: "Water", Quantity: 400, Unit: "ml", ModuleID: "water-dispenser"},
				{ID: "boiling-water-turdal", Name: "Boiling Water", Quantity: 100, Unit: "ml", ModuleID: "boiling-water"},
				{ID: "spices-turdal", Name: "Spice Mix (Turmeric, Cumin, Mustard Seeds)", Quantity: 15, Unit: "g", ModuleID: "spice-dispenser",
					ProcessingSteps: []ProcessingStep{{ModuleID: "grinding-unit", Operation: "fine_grind", Duration: 20, Speed: 80}}},
				{ID: "oil-turdal", Name: "Cooking Oil", Quantity: 20, Unit: "ml", ModuleID: "oil-dispenser"},
				{ID: "onions-turdal", Name: "Fresh Onions", Quantity: 60, Unit: "g", ModuleID: "hopper-dispenser",
					ProcessingSteps: []ProcessingStep{{ModuleID: "chopping-unit", Operation: "chop", Duration: 15, Speed: 45}}},
				{ID: "curry-leaves-turdal", Name: "Fresh Curry Leaves", Quantity: 10, Unit: "g", ModuleID: "hopper-dispenser"},
				{ID: "tomato-turdal", Name: "Fresh Tomatoes", Quantity: 50, Unit: "g", ModuleID: "hopper-dispenser",
					ProcessingSteps: []ProcessingStep{{ModuleID: "chopping-unit", Operation: "chop", Duration: 10, Speed: 50}}},
			},
			Steps: []string{
				"Dispensing and coarse grinding tur dal",
				"Preparing water and bringing to boil",
				"Fine grinding spices for tempering",
				"Chopping onions for flavor base",
				"Chopping fresh tomatoes",
				"Heating oil for spice tempering",
				"Adding mustard seeds and curry leaves",
				"Sautéing onions until golden brown",
				"Adding chopped tomatoes and cooking",
				"Adding ground spices to the mixture",
				"Adding coarse ground dal with water",
				"Cooking lentils to perfect tenderness",
				"Steam finishing for enhanced texture",
				"Final seasoning and taste adjustment",
				"System deep cleaning and sanitization",
			},
			Rating:      4.7,
			TimesCooked: 156,
		},
		{
			ID:          "masoor-dal",
			Name:        "Masoor Dal",
			Category:    "Lentil Recipes",
			Description: "A simple yet flavorful red lentil preparation with a blend of spices.",
			CookingTime: 18,
			Ingredients: []Ingredient{
				{ID: "masoordal", Name: "Masoor Dal (Red Lentils)", Quantity: 100, Unit: "g", ModuleID: "hopper-dispenser",
					ProcessingSteps: []ProcessingStep{{ModuleID: "grinding-unit", Operation: "light_grind", Duration: 5, Speed: 40}}},
				{ID: "water-masoordal", Name: "Water", Quantity: 350, Unit: "ml", ModuleID: "water-dispenser"},
				{ID: "boiling-water-masoordal", Name: "Boiling Water", Quantity: 150, Unit: "ml", ModuleID: "boiling-water"},
				{ID: "spices-masoordal", Name: "Spice Mix (Turmeric, Red Chili, Coriander)", Quantity: 12, Unit: "g", ModuleID: "spice-dispenser",
					ProcessingSteps: []ProcessingStep{{ModuleID: "grinding-unit", Operation: "medium_grind", Duration: 15, Speed: 65}}},
				{ID: "oil-masoordal", Name: "Cooking Oil", Quantity: 18, Unit: "ml", ModuleID: "oil-dispenser"},
				{ID: "onions-masoordal", Name: "Onions", Quantity: 75, Unit: "g", ModuleID: "hopper-dispenser",
					ProcessingSteps: []ProcessingStep{{ModuleID: "chopping-unit", Operation: "chop", Duration: 25, Speed: 55}}},
				{ID: "ginger-garlic-masoordal", Name: "Ginger-Garlic Paste", Quantity: 20, Unit: "g", ModuleID: "hopper-dispenser",
					ProcessingSteps: []ProcessingStep{{ModuleID: "grinding-unit", Operation: "paste", Duration: 30, Speed: 90}}},
				{ID: "green-chilies-masoordal", Name: "Green Chilies", Quantity: 15, Unit: "g", ModuleID: "hopper-dispenser",
					ProcessingSteps: []ProcessingStep{{ModuleID: "chopping-unit", Operation: "slit", Duration: 5, Speed: 30}}},
				{ID: "cilantro-masoordal", Name: "Fresh Cilantro", Quantity: 20, Unit: "g", ModuleID: "hopper-dispenser",
					ProcessingSteps: []ProcessingStep{{ModuleID: "chopping-unit", Operation: "chop", Duration: 10, Speed: 40}}},
			},
			Steps: []string{
				"Dispensing and light grinding masoor dal",
				"Preparing water for dal cooking",
				"Medium grinding spices for flavor",
				"Chopping onions for tempering base",
				"Making ginger-garlic paste",
				"Slitting green chilies carefully",
				"Chopping fresh cilantro for garnish",
				"Heating oil for aromatic tempering",
				"Adding ground dal to boiling water",
				"Cooking lentils to perfect consistency",
				"Preparing tempering with onions and spices",
				"Adding ginger-garlic paste to tempering",
				"Adding ground spices and green chilies",
				"Combining tempering with cooked dal",
				"Steam finishing for enhanced flavor",
				"Final garnish with fresh cilantro",
				"Complete system washing and cleaning",
			},
			Rating:      4.4,
			TimesCooked: 112,
		},
	}
}

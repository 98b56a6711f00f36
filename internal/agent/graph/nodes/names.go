package nodes

// Graph node keys.
const (
	NodeGreet               = "greet"
	NodeTruncateHistory     = "truncate_history"
	NodeKeywordRouter       = "keyword_router"
	NodeClassifierInput     = "classifier_input"
	NodeClassifierChatModel = "classifier_chat_model"
	NodeIntentParser        = "intent_parser"
	NodeFindRecipe          = "find_recipe"
	NodeRecipeDetails       = "recipe_details"
	NodeAnalyzeNutrition    = "analyze_nutrition"
	NodeFallback            = "fallback"
)

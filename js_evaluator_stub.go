//go:build !js_eval

package globals

// NewJSEvaluator is unavailable without the js_eval build tag.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = applyJSEvaluatorOptions(opts)
	return nil
}

func isJSEvaluator(Evaluator) bool {
	return false
}

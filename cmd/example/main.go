package main

import (
	"fmt"

	"github.com/tomasb21/glmpath"
	"gonum.org/v1/gonum/mat"
)

func main() {
	X := mat.NewDense(4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	y := []float64{3, 7, 11, 15}

	cfg := glmpath.NewDefaultPathConfig()
	cfg.Alpha = 0.5
	cfg.NLambda = 20
	cfg.Verbose = true

	result, err := glmpath.FitGaussianDense(X, glmpath.FitInputs{Y: y, Alpha: cfg.Alpha}, cfg, glmpath.DefaultInternalParams())
	if err != nil {
		fmt.Println("fit failed:", err)
		return
	}

	last := result.Lmu - 1
	fmt.Println("weights:", result.Coefficients(last))
	fmt.Println("intercept:", result.Intercept[last])

	beta := result.Coefficients(last)
	for i := 0; i < 4; i++ {
		pred := beta[0]*X.At(i, 0) + beta[1]*X.At(i, 1) + result.Intercept[last]
		fmt.Printf("X: [%.1f, %.1f] => y_true: %.1f, y_pred: %.4f\n",
			X.At(i, 0), X.At(i, 1), y[i], pred)
	}
}

package slowcount_test

import (
	"errors"
	"fmt"

	"slowcount.lopezb.com/internal/slowcount"
)

func Example() {
	s, err := slowcount.New(2000)
	if err != nil {
		panic(err)
	}

	for i := 0; i < 1000; i++ {
		s.AddString(fmt.Sprintf("user-%d", i))
	}

	r, err := s.Estimate()
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.0f ± %.0f\n", r.Estimate, r.StdError)
	// Output: 998 ± 23
}

func ExampleSketch_Estimate_empty() {
	s, _ := slowcount.New(100)

	_, err := s.Estimate()
	fmt.Println(errors.Is(err, slowcount.ErrDegenerateEstimate))
	// Output: true
}

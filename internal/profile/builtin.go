package profile

// Built-in profiles for books with known font layouts. Values come from
// running font analysis on each title once and pinning the results.
func builtins() []*Profile {
	return []*Profile{
		MustNew(Spec{
			Name:                  "learning_python",
			Heading1MinSize:       20.0,
			Heading2MinSize:       15.0,
			Heading3MinSize:       12.5,
			BodySize:              10.0,
			CodeSize:              8.5,
			SkipPagesStart:        20,
			SkipPagesEnd:          30,
			ExerciseStartPattern:  `Test Your Knowledge:\s*Quiz`,
			ExerciseAnswerPattern: `Test Your Knowledge:\s*Answers`,
		}),
		MustNew(Spec{
			Name:                 "python_cookbook",
			Heading1MinSize:      20.0,
			Heading2MinSize:      14.0,
			Heading3MinSize:      11.5,
			BodySize:             10.0,
			CodeSize:             8.5,
			SkipPagesStart:       15,
			SkipPagesEnd:         15,
			ExerciseStartPattern: `^(\d+\.\d+)\.\s+`, // recipe headings: "1.1. "
		}),
		MustNew(Spec{
			Name:            "programming_python",
			Heading1MinSize: 20.0,
			Heading2MinSize: 15.0,
			Heading3MinSize: 12.0,
			BodySize:        10.0,
			CodeSize:        8.5,
			SkipPagesStart:  20,
			SkipPagesEnd:    30,
		}),
		MustNew(Spec{
			Name:            "cpp_primer",
			Heading1MinSize: 20.0,
			Heading2MinSize: 14.0,
			Heading3MinSize: 12.0,
			BodySize:        10.0,
			CodeSize:        8.5,
			SkipPagesStart:  20,
			SkipPagesEnd:    30,
		}),
		MustNew(Spec{
			Name:            "effective_cpp",
			Heading1MinSize: 18.0,
			Heading2MinSize: 14.0,
			Heading3MinSize: 12.0,
			BodySize:        10.0,
			CodeSize:        8.5,
			ChapterPattern:  `^(?:Item|Chapter)\s+(\d+)`,
			SkipPagesStart:  15,
			SkipPagesEnd:    15,
		}),
	}
}

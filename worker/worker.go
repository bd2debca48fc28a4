package worker

import "github.com/shuv-amp/sp-differ/domain/entities"

// APIVersion identifies the call contract implemented by this worker:
// argument order of the three entry points and the reply encoding.
const APIVersion uint32 = 1

// CheckCaseHeader reports whether input starts with a recognized v1 case
// header. A nil input stands for a null pointer and is never recognized.
func CheckCaseHeader(input []byte) bool {
	if input == nil {
		return false
	}
	_, err := entities.ParseCaseHeader(input)
	return err == nil
}

// Run evaluates one case and returns its reply. Run never fails: every input
// produces a verdict. It does not retain input.
func Run(input []byte) entities.Reply {
	if CheckCaseHeader(input) {
		return entities.NewReply(entities.StatusOK)
	}
	return entities.NewReply(entities.StatusInvalidInput)
}

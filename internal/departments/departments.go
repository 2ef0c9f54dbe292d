// Package departments holds the static mapping between academic department
// codes and the programs they own. The mapping is a total partition: every
// program belongs to exactly one department, and coordinator visibility is
// derived from it.
package departments

import "strings"

// Code identifies an academic department
type Code string

const (
	CEA   Code = "CEA"   // College of Engineering and Architecture
	CCS   Code = "CCS"   // College of Computer Studies
	CASE  Code = "CASE"  // College of Arts, Sciences, and Education
	CMBA  Code = "CMBA"  // College of Management, Business and Accountancy
	CNAHS Code = "CNAHS" // College of Nursing and Allied Health Sciences
	CCJ   Code = "CCJ"   // College of Criminal Justice
)

var courseTable = map[Code][]string{
	CEA: {
		"BS Architecture",
		"BS Chemical Engineering",
		"BS Civil Engineering",
		"BS Computer Engineering",
		"BS Electrical Engineering",
		"BS Electronics Engineering",
		"BS Industrial Engineering",
		"BS Mechanical Engineering",
		"BS Mining Engineering",
	},
	CMBA: {
		"BS Accountancy",
		"BS Accounting Information Systems",
		"BS Management Accounting",
		"BS Business Administration",
		"BS Hospitality Management",
		"BS Tourism Management",
		"BS Office Administration",
		"Bachelor in Public Administration",
	},
	CASE: {
		"AB Communication",
		"AB English with Applied Linguistics",
		"Bachelor of Elementary Education",
		"Bachelor of Secondary Education",
		"Bachelor of Multimedia Arts",
		"BS Biology",
		"BS Math with Applied Industrial Mathematics",
		"BS Psychology",
	},
	CNAHS: {
		"BS Nursing",
		"BS Pharmacy",
		"BS Medical Technology",
	},
	CCS: {
		"BS Information Technology",
		"BS Computer Science",
	},
	CCJ: {
		"BS Criminology",
	},
}

// byCourse inverts courseTable for O(1) lookups
var byCourse = func() map[string]Code {
	m := make(map[string]Code)
	for code, courses := range courseTable {
		for _, course := range courses {
			m[course] = code
		}
	}
	return m
}()

// All returns every department code in display order
func All() []Code {
	return []Code{CEA, CCS, CASE, CMBA, CNAHS, CCJ}
}

// IsValid checks if the code is a known department
func IsValid(code Code) bool {
	_, ok := courseTable[code]
	return ok
}

// Courses returns the programs owned by the department
func Courses(code Code) []string {
	courses := courseTable[code]
	out := make([]string, len(courses))
	copy(out, courses)
	return out
}

// AllCourses returns every known program, grouped by department order
func AllCourses() []string {
	var out []string
	for _, code := range All() {
		out = append(out, courseTable[code]...)
	}
	return out
}

// DepartmentOf returns the department that owns the given program
func DepartmentOf(course string) (Code, bool) {
	code, ok := byCourse[course]
	return code, ok
}

// Intersects reports whether a listing targeting the given programs is
// visible to the department. An empty program list means the listing is open
// to all programs and therefore visible to every department.
func Intersects(code Code, courses []string) bool {
	if !IsValid(code) {
		return false
	}
	if len(courses) == 0 {
		return true
	}
	for _, course := range courses {
		if owner, ok := byCourse[course]; ok && owner == code {
			return true
		}
	}
	return false
}

// keyword rules tried in order; first hit wins
var keywordRules = []struct {
	code     Code
	keywords []string
}{
	{CCS, []string{"computer science", "information technology"}},
	{CEA, []string{"engineering", "architecture"}},
	{CNAHS, []string{"nursing", "pharmacy", "medical"}},
	{CCJ, []string{"criminology"}},
	{CMBA, []string{"account", "business", "management", "administration", "tourism", "hospitality"}},
	{CASE, []string{"communication", "education", "biology", "psychology", "english", "math", "multimedia"}},
}

// GuessDepartment classifies a program by keyword substring match.
//
// Deprecated: this is the degraded mode used only when a program is absent
// from the static table (e.g. the upstream department endpoint is down and a
// listing carries a program name this build does not know). It is lossy and
// can misclassify; prefer DepartmentOf.
func GuessDepartment(course string) (Code, bool) {
	if code, ok := DepartmentOf(course); ok {
		return code, true
	}

	lower := strings.ToLower(course)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.code, true
			}
		}
	}
	return "", false
}

package lanekeep

import "regexp"

// DefaultAnswer is returned when no resolution rule matches.
const DefaultAnswer = "Sorry, I do not know how to handle that."

// NoChange answers command exchanges that should leave the system untouched.
const NoChange = "Okay, I will leave your system the way it is."

// Classification labels.
const (
	LabelInfo    = "info"
	LabelCommand = "cmd"
)

// classifierRule maps a label to the pattern that selects it.
// Evaluated in order; "cmd" matches anything and acts as the catch-all.
type classifierRule struct {
	label   string
	pattern *regexp.Regexp
}

var classifier = []classifierRule{
	{LabelInfo, regexp.MustCompile(`\bmean\b|\bwork\b|\babout\b|\bwhy\b`)},
	{LabelCommand, regexp.MustCompile(`\w`)},
}

// slotPattern extracts one named slot from free text.
type slotPattern struct {
	name    string
	pattern *regexp.Regexp
}

// Slots extracted for informational queries.
var infoSlots = []slotPattern{
	{"red", regexp.MustCompile(`\bred(ish)?\b`)},
	{"yellow", regexp.MustCompile(`\byellow(ish)?\b`)},
	{"gray", regexp.MustCompile(`gray(ish)?|grey(ish)?`)},
	{"no lane", regexp.MustCompile(`(\bno\b|\bnot\b|\bany\b) (\blane(s)?\b( markings)?|\bline(s)?\b( markings)?)`)},
	{"aid", regexp.MustCompile(`\baid\b`)},
	{"alert", regexp.MustCompile(`\balert\b`)},
	{"lane", regexp.MustCompile(`\blane(s)?\b( markings)?|\bline(s)?\b( markings)?`)},
	{"vibration", regexp.MustCompile(`\bvibrate\b|\bvibration\b`)},
	{"alerting", regexp.MustCompile(`warning|alerting|vibrating`)},
}

// Slots extracted for command queries.
var cmdSlots = []slotPattern{
	{"up", regexp.MustCompile(`increase|\bup\b`)},
	{"down", regexp.MustCompile(`decrease|\bdown\b`)},
	{"on", regexp.MustCompile(`\bon\b|running|working|start`)},
	{"off", regexp.MustCompile(`\boff\b|not (running|working)|stop`)},
	{"yes", regexp.MustCompile(`(?i)\byes\b|\bokay\b|\bsure\b|\byeah?\b`)},
	{"no", regexp.MustCompile(`(?i)\bno\b|\bnope\b|nah\b`)},
	{"vibration", regexp.MustCompile(`vibrate|vibration|vibrating`)},
	{"lane", regexp.MustCompile(`\blane(s)?\b( \bmarkings\b)?|\bline(s)?\b( \bmarkings\b)?`)},
	{"change", regexp.MustCompile(`(?i)change|\bturn\b|increase|decrease`)},
}

// infoEntry answers an informational query when its slot was extracted.
type infoEntry struct {
	slot   string
	answer string
}

// Lane keeping facts, looked up by the first extracted slot in declared
// key order.
var infoTable = []infoEntry{
	{"red", "Red lanes mean you are drifiting out of your lane so your wheel vibrates to warn you."},
	{"yellow", "Yellow lanes mean you are starting to drift so your wheel will turn back to your lane."},
	{"gray", "Gray lanes mean either you are driving under the minimum speed threshold or the road lane markings are not visible."},
	{"no lane", "No lanes mean your lane keeping system is off. Would you like me to turn it on?"},
	{"aid", "Aid mode warns you when you are starting to drift out of your lane."},
	{"alert", "Alert mode warns you when you are drifting out of your lane."},
	{"alerting", "When changing lanes make sure to use your turn signal to temporarily deactive the lane keeping system."},
	{"lane", "The lane keeping system helps to keep you in your lane and warns you otherwise through the aid and alert modes."},
	{"vibration", "Vibration insenity is a setting for the aid mode. There are three levels: Low, Normal, High."},
}

// commandRule maps a required slot set to a single lane-keeping command.
type commandRule struct {
	requires []string
	outcome  string
}

// Command rules, first-match-wins by declaration order. A later, more
// specific rule never beats an earlier match; downstream behavior depends
// on this ordering, so keep it stable.
var commandTable = []commandRule{
	{[]string{"lane", "change", "on", "yes"}, "power on"},
	{[]string{"lane", "change", "off", "no"}, NoChange},
	{[]string{"lane", "change", "off", "yes"}, "power off"},
	{[]string{"lane", "change", "on", "no"}, NoChange},
	{[]string{"lane", "change", "on"}, "power on"},
	{[]string{"lane", "change", "off"}, "power off"},
	{[]string{"lane", "on"}, "power status"},
	{[]string{"lane", "off"}, "power status"},
	{[]string{"vibration", "change", "up"}, "vibration up"},
	{[]string{"vibration", "change", "down"}, "vibration down"},
	{[]string{"vibration"}, "vibration status"},
	{[]string{"change", "on", "yes"}, "power on"},
	{[]string{"change", "on", "no"}, NoChange},
	{[]string{"change", "off", "yes"}, "power off"},
	{[]string{"change", "off", "no"}, NoChange},
}

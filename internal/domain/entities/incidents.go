package entities

import "regexp"

var openIncidentsPattern = regexp.MustCompile(`Open incidents: (.*)(?:\s[|])`)

// DescribeIncidents summarises the open incidents announced in a production channel topic,
// e.g. "Open incidents: INC-1, INC-2 | On call: ...".
func DescribeIncidents(topic string) string {
	match := openIncidentsPattern.FindStringSubmatch(topic)
	if match == nil {
		return "There are no open incidents on the production Slack channel"
	}
	return "There are open incidents in the production Slack channel: " + match[1]
}

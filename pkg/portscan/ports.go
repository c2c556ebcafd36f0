package portscan

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPorts is scanned when no port spec is given. It covers the common
// service ports (ftp, ssh, smtp, dns, http(s), smb, databases, rdp, docker,
// cpanel, mongo, plex and friends).
const DefaultPorts = "20,21,22,23,25,47,53,69,80,110,113,123,135,137,138,139," +
	"143,161,179,194,201,311,389,427,443,445,465,500,513,514,515,530,548,554," +
	"563,587,593,601,631,636,660,674,691,694,749,751,843,873,901,902,903,987," +
	"990,992,993,994,995,1000,1167,1234,1433,1434,1521,1528,1723,1812,1813," +
	"2000,2049,2375,2376,2077,2078,2082,2083,2086,2087,2095,2096,2222,2433," +
	"2483,2484,2638,3000,3260,3268,3269,3283,3306,3389,3478,3690,4000,5000," +
	"5432,5433,6000,6667,7000,8000,8080,8443,8880,8888,9000,9001,9389,9418," +
	"9998,27017,27018,27019,28017,32400"

const maxPort = 65535

// ParsePortSpec resolves a port specification into an ordered port list.
// Supported forms: a single port ("80"), a comma list ("22,80,443"), a
// hyphenated range ("80-515") or "all" (1-65535). A spec that mixes range
// and list syntax is rejected; list duplicates are preserved as given.
func ParsePortSpec(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty port spec")
	}
	if strings.EqualFold(spec, "all") {
		spec = "1-65535"
	}

	hasRange := strings.Contains(spec, "-")
	hasList := strings.Contains(spec, ",")
	if hasRange && hasList {
		return nil, fmt.Errorf("port spec cannot contain both a port range and a list of ports: %s", spec)
	}

	if hasRange {
		bounds := strings.SplitN(spec, "-", 2)
		start, err := parsePort(bounds[0])
		if err != nil {
			return nil, err
		}
		end, err := parsePort(bounds[1])
		if err != nil {
			return nil, err
		}
		if end < start {
			return nil, fmt.Errorf("ending port %d is less than starting port %d", end, start)
		}
		ports := make([]int, 0, end-start+1)
		for p := start; p <= end; p++ {
			ports = append(ports, p)
		}
		return ports, nil
	}

	parts := strings.Split(spec, ",")
	ports := make([]int, 0, len(parts))
	for _, part := range parts {
		p, err := parsePort(part)
		if err != nil {
			return nil, err
		}
		ports = append(ports, p)
	}
	return ports, nil
}

// ParseSkipPorts builds the exclusion set from a skip specification, using
// the same grammar as ParsePortSpec. An empty spec yields an empty set.
func ParseSkipPorts(spec string) (map[int]struct{}, error) {
	skip := make(map[int]struct{})
	if strings.TrimSpace(spec) == "" {
		return skip, nil
	}
	ports, err := ParsePortSpec(spec)
	if err != nil {
		return nil, err
	}
	for _, p := range ports {
		skip[p] = struct{}{}
	}
	return skip, nil
}

func parsePort(s string) (int, error) {
	s = strings.TrimSpace(s)
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	if p < 1 || p > maxPort {
		return 0, fmt.Errorf("port %d out of range 1-%d", p, maxPort)
	}
	return p, nil
}

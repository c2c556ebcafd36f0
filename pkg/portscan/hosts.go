package portscan

import (
	"fmt"
	"math/rand"
	"net"
	"strings"

	iputil "github.com/zan8in/pins/ip"
)

// EnumerateHosts expands a target expression into concrete IPv4 addresses.
// A name (anything that is not an IP or CIDR) is resolved once via DNS and
// yields the single resolved address. A CIDR yields its usable host
// addresses with the network and broadcast addresses excluded; a /32 or a
// bare address yields itself. When shuffle is set the order is randomized.
func EnumerateHosts(target string, shuffle bool) ([]string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("empty target")
	}

	if !iputil.IsIP(target) && !strings.Contains(target, "/") {
		addr, err := resolveHost(target)
		if err != nil {
			return nil, fmt.Errorf("unable to resolve hostname %s: %v", target, err)
		}
		return []string{addr}, nil
	}

	if !strings.Contains(target, "/") {
		return []string{target}, nil
	}

	hosts, err := hostsFromCIDR(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target %s: %v", target, err)
	}
	if shuffle {
		rand.Shuffle(len(hosts), func(i, j int) {
			hosts[i], hosts[j] = hosts[j], hosts[i]
		})
	}
	return hosts, nil
}

// ParseSkipNetwork parses the optional excluded sub-network. An empty spec
// yields nil, meaning no host-level exclusion.
func ParseSkipNetwork(cidr string) (*net.IPNet, error) {
	cidr = strings.TrimSpace(cidr)
	if cidr == "" {
		return nil, nil
	}
	_, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("invalid skip netblock %s: %v", cidr, err)
	}
	return ipnet, nil
}

// HostExcluded reports whether host falls inside the excluded network.
func HostExcluded(host string, skipNet *net.IPNet) bool {
	if skipNet == nil {
		return false
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return skipNet.Contains(ip)
}

func resolveHost(name string) (string, error) {
	addrs, err := net.LookupHost(name)
	if err != nil {
		return "", err
	}
	for _, a := range addrs {
		if ip := net.ParseIP(a); ip != nil && ip.To4() != nil {
			return a, nil
		}
	}
	return "", fmt.Errorf("no IPv4 address for %s", name)
}

func hostsFromCIDR(cidr string) ([]string, error) {
	ip, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, err
	}
	if ip.To4() == nil {
		return nil, fmt.Errorf("not an IPv4 network")
	}
	if !ip.Equal(ip.Mask(ipnet.Mask)) {
		return nil, fmt.Errorf("%s has host bits set", cidr)
	}

	var hosts []string
	for cur := ip.Mask(ipnet.Mask); ipnet.Contains(cur); incIP(cur) {
		hosts = append(hosts, cur.String())
	}
	// A /32 denotes exactly one address; anything larger drops the network
	// and broadcast addresses.
	if len(hosts) > 2 {
		return hosts[1 : len(hosts)-1], nil
	}
	return hosts, nil
}

func incIP(ip net.IP) {
	for j := len(ip) - 1; j >= 0; j-- {
		ip[j]++
		if ip[j] > 0 {
			break
		}
	}
}

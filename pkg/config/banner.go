package config

import (
	"fmt"

	"tcpscan/pkg/log"
)

const Version = "1.4.0"

func ShowBanner() {
	fmt.Println("NAME:\n   " + log.LogColor.Banner("tcpscan") + " - v" + Version + "\n")
}

func ShowUsage() string {
	return "\nUSAGE:\n   tcpscan -t 192.168.1.0/24\n   tcpscan -t 192.168.1.100 -p 22,80,443 -o result.csv\n   tcpscan -t www.example.com -p 80-515 -v\n   tcpscan -L -p 8080,8443\n"
}

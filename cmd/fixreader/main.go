package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	fix "github.com/aldas/go-fix-client"
	"github.com/aldas/go-fix-client/fix44"
	"github.com/aldas/go-fix-client/internal/utils"
	"github.com/aldas/go-fix-client/stream"
	"github.com/tarm/serial"
)

func main() {
	deviceAddr := flag.String("device", "", "path to serial device, ordinary file or tcp://host:port address to read FIX traffic from")
	isFile := flag.Bool("is-file", false, "consider device as ordinary file")
	baudRate := flag.Int("baud", 115200, "serial device baud rate")
	outputFormat := flag.String("output-format", "json", "in which format decoded messages should be printed out (json, pipe, hex)")
	msgTypeFilter := flag.String("filter", "", "comma separated list of message types to print (e.g. `8,W,X`)")
	noChecksum := flag.Bool("no-checksum", false, "disable CheckSum/BodyLength verification")
	noValidate := flag.Bool("no-validate", false, "disable data dictionary validation")
	resync := flag.Bool("resync", false, "on decode failure skip one byte and try to resynchronize instead of exiting")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if deviceAddr == nil || *deviceAddr == "" {
		log.Fatal("# missing device path\n")
	}
	switch *outputFormat {
	case "json", "pipe", "hex":
	default:
		log.Fatal("unknown output format type given\n")
	}

	filter := map[string]bool{}
	if *msgTypeFilter != "" {
		for _, mt := range strings.Split(*msgTypeFilter, ",") {
			filter[strings.TrimSpace(mt)] = true
		}
	}

	var device io.Reader
	var err error
	if *isFile {
		device, err = os.OpenFile(*deviceAddr, os.O_RDONLY, 0)
	} else if strings.HasPrefix(*deviceAddr, "tcp://") {
		var dialer net.Dialer
		addr := strings.TrimPrefix(*deviceAddr, "tcp://")
		conn, dErr := dialer.DialContext(ctx, "tcp", addr)
		err = dErr
		if dErr == nil {
			go func() {
				<-ctx.Done()
				conn.Close()
			}()
			device = conn
		}
	} else {
		device, err = serial.OpenPort(&serial.Config{
			Name:        *deviceAddr,
			Baud:        *baudRate,
			ReadTimeout: 100 * time.Millisecond,
		})
	}
	if err != nil {
		log.Fatalf("failed to open device: %v\n", err)
	}

	dictionary := fix44.NewDictionary()
	reader := stream.NewReaderWithConfig(device, dictionary, stream.Config{
		DecoderConfig: fix44.Config{
			SkipChecksumVerify: *noChecksum,
			SkipValidation:     *noValidate,
		},
	})
	defer reader.Close()

	count := 0
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				break
			}
			var decodeErr *fix44.DecodeError
			if errors.As(err, &decodeErr) && *resync {
				fmt.Printf("# skipping byte after decode failure: %v\n", err)
				reader.Skip(1)
				continue
			}
			log.Fatalf("read failure: %v\n", err)
		}
		if len(filter) > 0 && !filter[msg.MsgType] {
			continue
		}
		count++
		printMessage(dictionary, msg, *outputFormat)
	}
	fmt.Printf("# done, %v messages\n", count)
}

type jsonField struct {
	Tag   fix.Tag `json:"tag"`
	Name  string  `json:"name,omitempty"`
	Value string  `json:"value"`
}

type jsonMessage struct {
	MsgType    string      `json:"msgType"`
	MsgSeqNum  int64       `json:"msgSeqNum"`
	BodyLength int         `json:"bodyLength"`
	CheckSum   int         `json:"checkSum"`
	Fields     []jsonField `json:"fields"`
}

func printMessage(dictionary *fix44.Dictionary, msg fix.Message, format string) {
	switch format {
	case "pipe":
		fmt.Println(msg.String())
	case "hex":
		fmt.Println(hex.EncodeToString(msg.Raw))
	case "json":
		seqNum, _ := msg.GetInt(fix.TagMsgSeqNum)
		out := jsonMessage{
			MsgType:    msg.MsgType,
			MsgSeqNum:  seqNum,
			BodyLength: msg.BodyLength,
			CheckSum:   msg.CheckSum,
			Fields:     make([]jsonField, 0, len(msg.Fields)),
		}
		for _, f := range msg.Fields {
			jf := jsonField{Tag: f.Tag, Value: utils.FormatSOH(f.Bytes())}
			if def, ok := dictionary.FieldDef(f.Tag); ok {
				jf.Name = def.Name
			}
			out.Fields = append(out.Fields, jf)
		}
		b, err := json.Marshal(out)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s\n", b)
	}
}

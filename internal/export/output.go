package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/dessertly/ordersync/internal/models"
)

// Sink receives the merged order timeline, one order at a time.
type Sink interface {
	WriteOrder(order models.Order) error
	Close() error
}

var csvHeader = []string{
	"id", "db_id", "customer_name", "customer_mobile", "outlet",
	"timestamp", "item_count", "subtotal", "discount_code",
	"discount_amount", "tax_rate", "tax_amount", "total",
	"payment_type", "status",
}

func csvRow(order models.Order) []string {
	itemCount := 0
	for _, item := range order.Items {
		itemCount += item.Quantity
	}
	return []string{
		order.ID,
		order.DBID,
		order.Customer.Name,
		order.Customer.Mobile,
		order.Outlet,
		order.Timestamp.Format(time.RFC3339),
		strconv.Itoa(itemCount),
		strconv.FormatFloat(order.Subtotal, 'f', 2, 64),
		order.DiscountCode,
		strconv.FormatFloat(order.DiscountAmount, 'f', 2, 64),
		strconv.FormatFloat(order.TaxRate, 'f', 2, 64),
		strconv.FormatFloat(order.TaxAmount, 'f', 2, 64),
		strconv.FormatFloat(order.Total, 'f', 2, 64),
		order.PaymentType,
		order.Status,
	}
}

type ConsoleOutput struct{}

func (c *ConsoleOutput) WriteOrder(order models.Order) error {
	msg, err := json.Marshal(order)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(os.Stdout, "[%s] %s\n", order.Timestamp.Format(time.RFC3339), msg); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }

type CSVOutput struct {
	basePath string
	folder   string
	file     *os.File
	writer   *csv.Writer
}

func NewCSVOutput(basePath, folder string) *CSVOutput {
	return &CSVOutput{basePath: basePath, folder: folder}
}

func (c *CSVOutput) WriteOrder(order models.Order) error {
	if c.writer == nil {
		fullPath := filepath.Join(c.basePath, c.folder)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		file, err := os.Create(filepath.Join(fullPath, "orders.csv"))
		if err != nil {
			return err
		}
		c.file = file
		c.writer = csv.NewWriter(file)
		if err := c.writer.Write(csvHeader); err != nil {
			return err
		}
	}

	if err := c.writer.Write(csvRow(order)); err != nil {
		return err
	}
	c.writer.Flush()
	return c.writer.Error()
}

func (c *CSVOutput) Close() error {
	if c.writer != nil {
		c.writer.Flush()
		if err := c.writer.Error(); err != nil {
			return err
		}
	}
	if c.file != nil {
		return c.file.Close()
	}
	return nil
}

type JSONOutput struct {
	basePath string
	folder   string
	file     *os.File
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{basePath: basePath, folder: folder}
}

func (j *JSONOutput) WriteOrder(order models.Order) error {
	if j.file == nil {
		fullPath := filepath.Join(j.basePath, j.folder)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		file, err := os.Create(filepath.Join(fullPath, "orders.json"))
		if err != nil {
			return err
		}
		j.file = file
	}

	jsonData, err := json.Marshal(order)
	if err != nil {
		return err
	}
	if _, err := j.file.Write(jsonData); err != nil {
		return err
	}
	_, err = j.file.WriteString("\n")
	return err
}

func (j *JSONOutput) Close() error {
	if j.file != nil {
		return j.file.Close()
	}
	return nil
}

// orderRow is the flattened parquet schema for one order.
type orderRow struct {
	ID             string  `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8"`
	DBID           string  `parquet:"name=db_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	CustomerName   string  `parquet:"name=customer_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	CustomerMobile string  `parquet:"name=customer_mobile, type=BYTE_ARRAY, convertedtype=UTF8"`
	Outlet         string  `parquet:"name=outlet, type=BYTE_ARRAY, convertedtype=UTF8"`
	Timestamp      int64   `parquet:"name=timestamp, type=INT64"`
	ItemCount      int32   `parquet:"name=item_count, type=INT32"`
	Subtotal       float64 `parquet:"name=subtotal, type=DOUBLE"`
	DiscountCode   string  `parquet:"name=discount_code, type=BYTE_ARRAY, convertedtype=UTF8"`
	DiscountAmount float64 `parquet:"name=discount_amount, type=DOUBLE"`
	TaxRate        float64 `parquet:"name=tax_rate, type=DOUBLE"`
	TaxAmount      float64 `parquet:"name=tax_amount, type=DOUBLE"`
	Total          float64 `parquet:"name=total, type=DOUBLE"`
	PaymentType    string  `parquet:"name=payment_type, type=BYTE_ARRAY, convertedtype=UTF8"`
	Status         string  `parquet:"name=status, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type ParquetOutput struct {
	basePath           string
	folder             string
	file               source.ParquetFile
	writer             *writer.ParquetWriter
	cloudWriterFactory CloudWriterFactory
	cloudBucketName    string
}

func NewParquetOutput(config *models.Config) (*ParquetOutput, error) {
	p := &ParquetOutput{
		basePath: config.OutputPath,
		folder:   config.OutputFolder,
	}

	if config.OutputDestination != "local" {
		switch config.CloudStorage.Provider {
		case "s3":
			factory, err := NewS3WriterFactory(config.CloudStorage.Region)
			if err != nil {
				return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
			}
			p.cloudWriterFactory = factory
			p.cloudBucketName = config.CloudStorage.BucketName
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", config.CloudStorage.Provider)
		}
	}

	return p, nil
}

func (p *ParquetOutput) ensureWriter() error {
	if p.writer != nil {
		return nil
	}

	var fw source.ParquetFile
	if p.cloudWriterFactory != nil {
		objectPath := filepath.Join(p.folder, "orders.parquet")
		cloudWriter, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = newCloudParquetFile(cloudWriter)
	} else {
		fullPath := filepath.Join(p.basePath, p.folder)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		var err error
		fw, err = local.NewLocalFileWriter(filepath.Join(fullPath, "orders.parquet"))
		if err != nil {
			return fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	pw, err := writer.NewParquetWriter(fw, new(orderRow), 4)
	if err != nil {
		return fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	p.file = fw
	p.writer = pw
	return nil
}

func (p *ParquetOutput) WriteOrder(order models.Order) error {
	if err := p.ensureWriter(); err != nil {
		return err
	}

	itemCount := int32(0)
	for _, item := range order.Items {
		itemCount += int32(item.Quantity)
	}
	row := orderRow{
		ID:             order.ID,
		DBID:           order.DBID,
		CustomerName:   order.Customer.Name,
		CustomerMobile: order.Customer.Mobile,
		Outlet:         order.Outlet,
		Timestamp:      order.Timestamp.UnixMilli(),
		ItemCount:      itemCount,
		Subtotal:       order.Subtotal,
		DiscountCode:   order.DiscountCode,
		DiscountAmount: order.DiscountAmount,
		TaxRate:        order.TaxRate,
		TaxAmount:      order.TaxAmount,
		Total:          order.Total,
		PaymentType:    order.PaymentType,
		Status:         order.Status,
	}
	if err := p.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write order row: %w", err)
	}
	return nil
}

func (p *ParquetOutput) Close() error {
	if p.writer == nil {
		return nil
	}
	if err := p.writer.WriteStop(); err != nil {
		return err
	}
	return p.file.Close()
}

// cloudParquetFile adapts a CloudWriter to the parquet source interface.
// Cloud objects are write-only append streams, so reads and seeks from the
// end are unsupported.
type cloudParquetFile struct {
	cloudWriter CloudWriter
	offset      int64
}

func newCloudParquetFile(cloudWriter CloudWriter) *cloudParquetFile {
	return &cloudParquetFile{cloudWriter: cloudWriter}
}

func (c *cloudParquetFile) Open(name string) (source.ParquetFile, error)   { return c, nil }
func (c *cloudParquetFile) Create(name string) (source.ParquetFile, error) { return c, nil }

func (c *cloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *cloudParquetFile) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *cloudParquetFile) Write(p []byte) (int, error) {
	return c.cloudWriter.Write(p)
}

func (c *cloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
